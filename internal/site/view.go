package site

import (
	"html/template"

	"finitefield.org/portfolio/internal/content"
)

// HomeView is everything the home page template needs.
type HomeView struct {
	Nav          []NavItem
	Videos       []VideoCard
	Testimonials []TestimonialCard
	Services     []ServiceCard
	About        AboutView
	Contact      ContactView
	Form         FormView

	// StructuredData is schema.org JSON-LD describing the work gallery.
	StructuredData template.JS
}

// NavItem is a header link to an in-page section.
type NavItem struct {
	Anchor string
	Label  string
}

// VideoCard is one work gallery tile. Thumbnail is always a platform image
// URL or the built-in placeholder data URI.
type VideoCard struct {
	ID          string
	Platform    string
	Type        string
	Title       string
	Description string
	Category    string
	Thumbnail   template.URL
	Badge       content.Badge
	PlayerURL   string
	ExternalURL string
}

// TestimonialCard is one carousel slide.
type TestimonialCard struct {
	Name   string
	Role   string
	Text   string
	Rating int
	Stars  string
}

// ServiceCard is one services grid entry.
type ServiceCard struct {
	Icon        string
	Title       string
	Description string
}

// AboutView is the biography block. Body is sanitized Markdown output.
type AboutView struct {
	Body   template.HTML
	Image  string
	Resume string
}

// ContactView lists the configured contact channels.
type ContactView struct {
	Email         string
	EmailURL      string
	WhatsApp      string
	WhatsAppURL   string
	Instagram     string
	InstagramURL  string
	YouTubeURL    string
	HasAnyChannel bool
}

// FormView carries contact form state across a failed submission.
type FormView struct {
	Sent   bool
	Values content.ContactForm
	Errors content.FieldErrors
}

// HomeOptions controls request-specific parts of the page.
type HomeOptions struct {
	Form FormView
}

// BuildHome maps the document onto view models. Sections without entries
// are left out of both the page and the navigation.
func BuildHome(doc content.Document, md *Markdown, opts HomeOptions) HomeView {
	view := HomeView{Form: opts.Form}

	for _, v := range doc.Videos {
		embed := content.EmbedFor(v)
		view.Videos = append(view.Videos, VideoCard{
			ID:          v.ID,
			Platform:    string(v.Platform),
			Type:        string(v.Type),
			Title:       v.Title,
			Description: v.Description,
			Category:    v.Category,
			Thumbnail:   template.URL(content.ThumbnailURL(v)),
			Badge:       content.PlatformBadge(v),
			PlayerURL:   embed.PlayerURL,
			ExternalURL: embed.ExternalURL,
		})
	}
	for _, t := range doc.Testimonials {
		view.Testimonials = append(view.Testimonials, TestimonialCard{
			Name:   t.Name,
			Role:   t.Role,
			Text:   t.Text,
			Rating: content.ClampRating(t.Rating),
			Stars:  content.Stars(t.Rating),
		})
	}
	for _, s := range doc.Services {
		view.Services = append(view.Services, ServiceCard{Icon: s.Icon, Title: s.Title, Description: s.Description})
	}

	view.About = AboutView{
		Image:  content.DriveImageURL(doc.About.Image),
		Resume: doc.About.Resume,
	}
	if md != nil {
		view.About.Body = md.Render(doc.About.Text)
	}

	c := doc.Contact
	view.Contact = ContactView{
		Email:        c.Email,
		EmailURL:     content.MailtoURL(c.Email),
		WhatsApp:     c.WhatsApp,
		WhatsAppURL:  content.WhatsAppURL(c.WhatsApp),
		Instagram:    content.InstagramHandle(c.Instagram),
		InstagramURL: content.InstagramURL(c.Instagram),
		YouTubeURL:   c.YouTube,
	}
	view.Contact.HasAnyChannel = view.Contact.EmailURL != "" || view.Contact.WhatsAppURL != "" ||
		view.Contact.InstagramURL != "" || view.Contact.YouTubeURL != ""

	view.Nav = append(view.Nav, NavItem{Anchor: "home", Label: "Home"})
	if len(view.Videos) > 0 {
		view.Nav = append(view.Nav, NavItem{Anchor: "work", Label: "Work"})
	}
	view.Nav = append(view.Nav, NavItem{Anchor: "about", Label: "About"})
	if len(view.Services) > 0 {
		view.Nav = append(view.Nav, NavItem{Anchor: "services", Label: "Services"})
	}
	if len(view.Testimonials) > 0 {
		view.Nav = append(view.Nav, NavItem{Anchor: "testimonials", Label: "Testimonials"})
	}
	view.Nav = append(view.Nav, NavItem{Anchor: "contact", Label: "Contact"})
	view.StructuredData = videoGallery(view.Videos)
	return view
}
