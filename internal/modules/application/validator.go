package application

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	minAge = 18
	maxAge = 40
)

// forbiddenNameSymbols makes full names reject punctuation and symbols.
const forbiddenNameSymbols = `!@#$%^&*(),.?":{}|<>`

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateForm checks a complete candidate form and returns the ordered
// list of human-readable failures, or nil when the form is valid. For
// partial updates the caller merges the request over the stored record
// first. All rules are evaluated; nothing short-circuits.
func ValidateForm(form *CreateApplicationRequest) []string {
	return ValidateFormAt(form, time.Now())
}

// ValidateFormAt is ValidateForm with an explicit validation time, used
// to compute the applicant's age deterministically.
func ValidateFormAt(form *CreateApplicationRequest, now time.Time) []string {
	var errs []string

	if form.Email == "" || !emailPattern.MatchString(strings.TrimSpace(form.Email)) {
		errs = append(errs, "Valid email address is required")
	}

	name := strings.TrimSpace(form.FullName)
	if len([]rune(name)) < 2 || strings.ContainsAny(name, forbiddenNameSymbols) {
		errs = append(errs, "Full name must be at least 2 characters long and not contain special characters")
	}

	if birth, err := time.Parse(DateLayout, form.DateOfBirth); err != nil {
		errs = append(errs, "Date of birth is required")
	} else if age := wholeYearsBetween(birth, now); age < minAge || age > maxAge {
		errs = append(errs, "Applicant must be between 18 and 40 years old")
	}

	if len([]rune(strings.TrimSpace(form.ResidenceAddress))) < 5 {
		errs = append(errs, "Residence address must be at least 5 characters long")
	}

	if _, err := time.Parse(DateLayout, form.DateOfAgreement); err != nil {
		errs = append(errs, "Date of agreement is required")
	}

	if !isValidURL(form.SignatureImageURL) {
		errs = append(errs, "Valid signature image URL is required")
	}

	if !isValidURL(form.IDDocumentURL) {
		errs = append(errs, "Valid ID document URL is required")
	}

	if !form.TermsAccepted {
		errs = append(errs, "Terms and conditions must be accepted")
	}

	return errs
}

// wholeYearsBetween returns the completed years from birth to now.
func wholeYearsBetween(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

func isValidURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
