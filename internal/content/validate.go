package content

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	maxContactNameLength  = 30
	maxContactEmailLength = 20
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// FieldErrors maps a form field name to a human readable message.
type FieldErrors map[string]string

// Add records the first message for a field.
func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; exists {
		return
	}
	f[field] = message
}

// Empty reports whether no errors were recorded.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Fields returns the failing field names in a stable order.
func (f FieldErrors) Fields() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContactForm is the payload of the public contact form.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Trimmed returns the form with surrounding whitespace removed.
func (c ContactForm) Trimmed() ContactForm {
	return ContactForm{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Message: strings.TrimSpace(c.Message),
	}
}

// Validate applies the public contact form rules.
func (c ContactForm) Validate() FieldErrors {
	c = c.Trimmed()
	errs := FieldErrors{}

	switch {
	case c.Name == "":
		errs.Add("name", "Name is required")
	case utf8.RuneCountInString(c.Name) > maxContactNameLength:
		errs.Add("name", "Name must be maximum 30 characters long")
	}

	if c.Email != "" {
		switch {
		case utf8.RuneCountInString(c.Email) > maxContactEmailLength:
			errs.Add("email", "Email must be maximum 20 characters long")
		case !emailPattern.MatchString(c.Email):
			errs.Add("email", "Please enter a valid email address")
		}
	}

	switch {
	case c.Phone == "":
		errs.Add("phone", "Phone number is required")
	case !phonePattern.MatchString(c.Phone):
		errs.Add("phone", "Please enter a valid 10-digit phone number")
	}

	if c.Message == "" {
		errs.Add("message", "Message is required")
	}
	return errs
}

// ValidateVideo checks the admin video form.
func ValidateVideo(rawURL, title string, isNew bool) FieldErrors {
	errs := FieldErrors{}
	if isNew && strings.TrimSpace(rawURL) == "" {
		errs.Add("url", "Video URL or ID is required")
	}
	if strings.TrimSpace(title) == "" {
		errs.Add("title", "Title is required")
	}
	return errs
}

// Validate checks a testimonial before it is stored.
func (t Testimonial) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(t.Name) == "" {
		errs.Add("name", "Name is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		errs.Add("text", "Testimonial text is required")
	}
	if t.Rating < MinRating || t.Rating > MaxRating {
		errs.Add("rating", "Rating must be between 1 and 5")
	}
	return errs
}

// Validate checks a service before it is stored.
func (s Service) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(s.Title) == "" {
		errs.Add("title", "Title is required")
	}
	return errs
}

// Validate checks the contact channels configured in the admin.
func (c Contact) Validate() FieldErrors {
	errs := FieldErrors{}
	if email := strings.TrimSpace(c.Email); email != "" && !emailPattern.MatchString(email) {
		errs.Add("email", "Please enter a valid email address")
	}
	return errs
}
