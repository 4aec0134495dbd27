package editor

import (
	"context"
	"strings"

	"finitefield.org/portfolio/internal/content"
)

// VideoInput is the admin video form. URL is only read when adding.
type VideoInput struct {
	URL         string
	Title       string
	Description string
	Category    string
}

// SaveVideo adds a video when editID is empty, otherwise updates the title,
// description and category of the existing entry. Id, platform and URL never
// change on edit.
func (s *Service) SaveVideo(ctx context.Context, editID string, in VideoInput) (Result, error) {
	editID = strings.TrimSpace(editID)
	if err := invalid(content.ValidateVideo(in.URL, in.Title, editID == "")); err != nil {
		return Result{}, err
	}

	return s.mutate(ctx, "save video", func(doc *content.Document) (string, error) {
		if editID != "" {
			for i := range doc.Videos {
				if doc.Videos[i].ID == editID {
					doc.Videos[i].Title = strings.TrimSpace(in.Title)
					doc.Videos[i].Description = strings.TrimSpace(in.Description)
					doc.Videos[i].Category = strings.TrimSpace(in.Category)
					return editID, nil
				}
			}
			return editID, ErrNotFound
		}

		ref := content.ResolveVideo(in.URL)
		id := ref.ID
		if id == "" {
			id = content.NewID(s.now())
		}
		for _, existing := range doc.Videos {
			if existing.ID == id {
				return id, &ValidationError{Fields: content.FieldErrors{"url": "This video is already in the gallery"}}
			}
		}
		doc.Videos = append(doc.Videos, content.Video{
			ID:          id,
			Platform:    ref.Platform,
			Type:        ref.Type,
			URL:         ref.URL,
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Category:    strings.TrimSpace(in.Category),
		})
		return id, nil
	})
}

// DeleteVideo removes a video by id.
func (s *Service) DeleteVideo(ctx context.Context, id string) (Result, error) {
	return s.mutate(ctx, "delete video", func(doc *content.Document) (string, error) {
		for i := range doc.Videos {
			if doc.Videos[i].ID == id {
				doc.Videos = append(doc.Videos[:i], doc.Videos[i+1:]...)
				return id, nil
			}
		}
		return id, ErrNotFound
	})
}

// TestimonialInput is the admin testimonial form.
type TestimonialInput struct {
	Name   string
	Role   string
	Text   string
	Rating int
}

// SaveTestimonial adds or replaces a testimonial. Edits keep the entry's id.
func (s *Service) SaveTestimonial(ctx context.Context, editID string, in TestimonialInput) (Result, error) {
	entry := content.Testimonial{
		Name:   strings.TrimSpace(in.Name),
		Role:   strings.TrimSpace(in.Role),
		Text:   strings.TrimSpace(in.Text),
		Rating: in.Rating,
	}
	if err := invalid(entry.Validate()); err != nil {
		return Result{}, err
	}
	editID = strings.TrimSpace(editID)

	return s.mutate(ctx, "save testimonial", func(doc *content.Document) (string, error) {
		if editID != "" {
			for i := range doc.Testimonials {
				if doc.Testimonials[i].ID == editID {
					entry.ID = editID
					doc.Testimonials[i] = entry
					return editID, nil
				}
			}
			return editID, ErrNotFound
		}
		entry.ID = content.NewID(s.now())
		doc.Testimonials = append(doc.Testimonials, entry)
		return entry.ID, nil
	})
}

// DeleteTestimonial removes a testimonial by id.
func (s *Service) DeleteTestimonial(ctx context.Context, id string) (Result, error) {
	return s.mutate(ctx, "delete testimonial", func(doc *content.Document) (string, error) {
		for i := range doc.Testimonials {
			if doc.Testimonials[i].ID == id {
				doc.Testimonials = append(doc.Testimonials[:i], doc.Testimonials[i+1:]...)
				return id, nil
			}
		}
		return id, ErrNotFound
	})
}

// ServiceInput is the admin service form.
type ServiceInput struct {
	Icon        string
	Title       string
	Description string
}

// SaveService adds or replaces a service. Edits keep the entry's id.
func (s *Service) SaveService(ctx context.Context, editID string, in ServiceInput) (Result, error) {
	entry := content.Service{
		Icon:        strings.TrimSpace(in.Icon),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	if err := invalid(entry.Validate()); err != nil {
		return Result{}, err
	}
	editID = strings.TrimSpace(editID)

	return s.mutate(ctx, "save service", func(doc *content.Document) (string, error) {
		if editID != "" {
			for i := range doc.Services {
				if doc.Services[i].ID == editID {
					entry.ID = editID
					doc.Services[i] = entry
					return editID, nil
				}
			}
			return editID, ErrNotFound
		}
		entry.ID = content.NewID(s.now())
		doc.Services = append(doc.Services, entry)
		return entry.ID, nil
	})
}

// DeleteService removes a service by id.
func (s *Service) DeleteService(ctx context.Context, id string) (Result, error) {
	return s.mutate(ctx, "delete service", func(doc *content.Document) (string, error) {
		for i := range doc.Services {
			if doc.Services[i].ID == id {
				doc.Services = append(doc.Services[:i], doc.Services[i+1:]...)
				return id, nil
			}
		}
		return id, ErrNotFound
	})
}

// SaveAbout replaces the about block. Google Drive share links for the
// portrait are rewritten to a direct image URL.
func (s *Service) SaveAbout(ctx context.Context, in content.About) (Result, error) {
	about := content.About{
		Text:   strings.TrimSpace(in.Text),
		Image:  content.DriveImageURL(in.Image),
		Resume: strings.TrimSpace(in.Resume),
	}
	return s.mutate(ctx, "save about", func(doc *content.Document) (string, error) {
		doc.About = about
		return "", nil
	})
}

// SaveContact replaces the contact channels.
func (s *Service) SaveContact(ctx context.Context, in content.Contact) (Result, error) {
	contact := content.Contact{
		Email:     strings.TrimSpace(in.Email),
		WhatsApp:  strings.TrimSpace(in.WhatsApp),
		Instagram: strings.TrimSpace(in.Instagram),
		YouTube:   strings.TrimSpace(in.YouTube),
	}
	if err := invalid(contact.Validate()); err != nil {
		return Result{}, err
	}
	return s.mutate(ctx, "save contact", func(doc *content.Document) (string, error) {
		doc.Contact = contact
		return "", nil
	})
}
