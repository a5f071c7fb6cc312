package application

import "time"

// CreateApplicationRequest is the submission payload. Dates travel as
// YYYY-MM-DD strings; the validator parses and checks them.
type CreateApplicationRequest struct {
	Email             string `json:"email"`
	FullName          string `json:"full_name"`
	DateOfBirth       string `json:"date_of_birth"`
	ResidenceAddress  string `json:"residence_address"`
	DateOfAgreement   string `json:"date_of_agreement"`
	SignatureImageURL string `json:"signature_image_url"`
	IDDocumentURL     string `json:"id_document_url"`
	TermsAccepted     bool   `json:"terms_accepted"`
}

// UpdateApplicationRequest carries only the fields the client wants to
// change; nil means "leave as is".
type UpdateApplicationRequest struct {
	Email             *string `json:"email"`
	FullName          *string `json:"full_name"`
	DateOfBirth       *string `json:"date_of_birth"`
	ResidenceAddress  *string `json:"residence_address"`
	DateOfAgreement   *string `json:"date_of_agreement"`
	SignatureImageURL *string `json:"signature_image_url"`
	IDDocumentURL     *string `json:"id_document_url"`
	TermsAccepted     *bool   `json:"terms_accepted"`
}

// IsEmpty reports whether the request supplies no fields at all.
func (r *UpdateApplicationRequest) IsEmpty() bool {
	return r.Email == nil &&
		r.FullName == nil &&
		r.DateOfBirth == nil &&
		r.ResidenceAddress == nil &&
		r.DateOfAgreement == nil &&
		r.SignatureImageURL == nil &&
		r.IDDocumentURL == nil &&
		r.TermsAccepted == nil
}

// SearchFilters are the optional conjunctive search conditions.
// Zero values impose no condition.
type SearchFilters struct {
	Email    string
	FullName string
	DateFrom *time.Time
	DateTo   *time.Time
}

// CheckEmailRequest is the body of the email pre-check endpoint.
type CheckEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ListResponse is the paginated shape shared by list and search.
type ListResponse struct {
	Applications []Application `json:"applications"`
	Total        int           `json:"total"`
	Pages        int           `json:"pages"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
}
