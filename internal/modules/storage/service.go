package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Upload categories. Each record carries exactly one attachment of each.
const (
	CategorySignature  = "signature"
	CategoryIDDocument = "id_document"
)

// StaticURLBase is the URL prefix under which stored objects are served.
const StaticURLBase = "/static/uploads"

type categoryLimits struct {
	maxSize      int64
	allowedTypes map[string]bool
}

var limits = map[string]categoryLimits{
	CategorySignature: {
		maxSize: 2 * 1024 * 1024,
		allowedTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
		},
	},
	CategoryIDDocument: {
		maxSize: 5 * 1024 * 1024,
		allowedTypes: map[string]bool{
			"image/jpeg":      true,
			"image/png":       true,
			"image/webp":      true,
			"application/pdf": true,
		},
	},
}

// Store is the disk-backed attachment store. Objects live under a
// per-submission folder keyed by the sanitized owner name plus a session
// timestamp, so the two uploads of one form land together. Deletion is
// addressed by the public URL and is idempotent.
type Store struct {
	baseDir string
	baseURL string
	log     zerolog.Logger
}

func NewStore(baseDir, baseURL string, log zerolog.Logger) *Store {
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("component", "storage").Logger(),
	}
}

// Upload stores one attachment and returns its durable public URL.
// sessionTS groups the uploads of a single form submission into one folder.
func (s *Store) Upload(fileHeader *multipart.FileHeader, ownerName, category string, sessionTS int64) (string, error) {
	lim, ok := limits[category]
	if !ok {
		return "", ErrUnknownCategory
	}
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > lim.maxSize {
		return "", ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	// Sniff the MIME type from content, not from the client header.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !lim.allowedTypes[mimeType] {
		return "", ErrInvalidMimeType
	}
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	folder := fmt.Sprintf("internships/%s-%d", sanitizeOwner(ownerName), sessionTS)
	absDir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := fmt.Sprintf("%s-%d%s", slug(fileHeader.Filename), time.Now().UnixMilli(), ext)

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	}

	objectURL := s.baseURL + StaticURLBase + "/" + folder + "/" + filename
	s.log.Debug().Str("url", objectURL).Str("category", category).Msg("stored attachment")
	return objectURL, nil
}

// DeleteByURL removes the object a store URL points at. A missing object
// counts as deleted; only unexpected I/O errors or foreign URLs fail.
func (s *Store) DeleteByURL(objectURL string) error {
	if objectURL == "" {
		return nil
	}

	u, err := url.Parse(objectURL)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotManaged, objectURL)
	}

	idx := strings.Index(u.Path, StaticURLBase+"/")
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotManaged, objectURL)
	}
	rel := strings.TrimPrefix(u.Path[idx:], StaticURLBase+"/")
	rel = path.Clean(rel)
	if rel == "." || rel == "/" || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%w: %s", ErrNotManaged, objectURL)
	}

	absPath := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(absPath)
}

// DeleteMany deletes each URL independently, continuing past failures.
// ok is true only when every deletion succeeded.
func (s *Store) DeleteMany(ctx context.Context, urls []string) (failed []string, ok bool) {
	for _, u := range urls {
		if ctx.Err() != nil {
			failed = append(failed, u)
			continue
		}
		if err := s.DeleteByURL(u); err != nil {
			s.log.Warn().Str("url", u).Err(err).Msg("attachment delete failed")
			failed = append(failed, u)
		}
	}
	return failed, len(failed) == 0
}

// sanitizeOwner makes an applicant name safe as a folder component.
func sanitizeOwner(name string) string {
	name = strings.TrimSpace(name)
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	cleaned = collapseDashes(cleaned)
	if cleaned == "" {
		return "applicant"
	}
	return cleaned
}

// slug lowercases the original base name and reduces it to [a-z0-9-].
func slug(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ToLower(base)
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)
	cleaned = collapseDashes(cleaned)
	if len(cleaned) > 40 {
		cleaned = strings.Trim(cleaned[:40], "-")
	}
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

func collapseDashes(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
