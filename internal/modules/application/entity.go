package application

import "time"

// DateLayout is the wire format for the two applicant-supplied dates.
const DateLayout = "2006-01-02"

// Application is one internship application. Attachments live in the
// object store and are referenced here by URL only.
type Application struct {
	ID                int64     `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	FullName          string    `db:"full_name" json:"full_name"`
	DateOfBirth       time.Time `db:"date_of_birth" json:"date_of_birth"`
	ResidenceAddress  string    `db:"residence_address" json:"residence_address"`
	DateOfAgreement   time.Time `db:"date_of_agreement" json:"date_of_agreement"`
	SignatureImageURL string    `db:"signature_image_url" json:"signature_image_url"`
	IDDocumentURL     string    `db:"id_document_url" json:"id_document_url"`
	TermsAccepted     bool      `db:"terms_accepted" json:"terms_accepted"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// AttachmentURLs returns the non-empty stored object URLs of the record.
func (a *Application) AttachmentURLs() []string {
	urls := make([]string, 0, 2)
	if a.SignatureImageURL != "" {
		urls = append(urls, a.SignatureImageURL)
	}
	if a.IDDocumentURL != "" {
		urls = append(urls, a.IDDocumentURL)
	}
	return urls
}
