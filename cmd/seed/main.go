package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"internhub/internal/config"
	"internhub/internal/database"
	"internhub/internal/modules/admin"
	"internhub/internal/modules/application"
)

// Seeds a development database: one dashboard admin plus a handful of
// sample applications through the transactional batch path.
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	gormDB, err := database.Gorm(db)
	if err != nil {
		log.Fatal().Err(err).Msg("gorm init failed")
	}

	ctx := context.Background()

	adminRepo := admin.NewRepository(gormDB)
	if err := seedAdmin(ctx, adminRepo); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}

	appRepo := application.NewRepository(db)
	appService := application.NewService(appRepo, noopDeleter{}, log)
	if err := seedApplications(ctx, appService); err != nil {
		log.Fatal().Err(err).Msg("application seed failed")
	}

	log.Info().Msg("seed completed")
}

func seedAdmin(ctx context.Context, repo *admin.Repository) error {
	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	password := envOr("SEED_ADMIN_PASSWORD", "admin12345")

	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return repo.Create(ctx, &admin.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Dashboard Admin",
	})
}

func seedApplications(ctx context.Context, svc *application.Service) error {
	names := []string{"Jane Doe", "John Smith", "Aruzhan Bekova", "Carlos Mendes", "Mei Lin"}

	// Re-running the seeder should be a no-op.
	if exists, err := svc.EmailExists(ctx, "applicant1@example.com"); err != nil {
		return err
	} else if exists {
		return nil
	}

	reqs := make([]*application.CreateApplicationRequest, 0, len(names))
	for i, name := range names {
		email := fmt.Sprintf("applicant%d@example.com", i+1)
		birth := time.Now().AddDate(-(20 + i), 0, 0).Format(application.DateLayout)
		reqs = append(reqs, &application.CreateApplicationRequest{
			Email:             email,
			FullName:          name,
			DateOfBirth:       birth,
			ResidenceAddress:  fmt.Sprintf("%d Main Street", 100+i),
			DateOfAgreement:   time.Now().Format(application.DateLayout),
			SignatureImageURL: fmt.Sprintf("https://example.com/sign-%d.png", i+1),
			IDDocumentURL:     fmt.Sprintf("https://example.com/id-%d.pdf", i+1),
			TermsAccepted:     true,
		})
	}

	_, err := svc.CreateBatch(ctx, reqs)
	return err
}

type noopDeleter struct{}

func (noopDeleter) DeleteMany(_ context.Context, _ []string) ([]string, bool) { return nil, true }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
