package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"finitefield.org/portfolio/internal/admin/session"
	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/editor"
)

type videoListView struct {
	Videos []content.Video
}

type videoFormView struct {
	EditID string
	Action string
	Video  content.Video
	Errors content.FieldErrors
}

// Videos lists the work gallery.
func (h *Handlers) Videos(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Document(r.Context())
	h.render(w, r, http.StatusOK, "videos", h.page(r, "videos", "Videos", videoListView{Videos: doc.Videos}))
}

// VideoForm renders the add form, or the edit form when the route carries an id.
func (h *Handlers) VideoForm(w http.ResponseWriter, r *http.Request) {
	view := videoFormView{Action: joinBasePath(h.basePath, "/videos")}
	if chi.URLParam(r, "id") != "" {
		id := entryID(r)
		video, ok := findVideo(h.editor.Document(r.Context()), id)
		if !ok {
			h.flash(r, session.FlashWarning, "That video no longer exists.")
			h.redirect(w, r, "/videos")
			return
		}
		view.EditID = id
		view.Video = video
		view.Action = joinBasePath(h.basePath, "/videos/"+chi.URLParam(r, "id"))
	}
	h.render(w, r, http.StatusOK, "video_form", h.page(r, "videos", videoTitle(view.EditID), view))
}

// VideoSubmit adds or updates a video.
func (h *Handlers) VideoSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	editID := ""
	if chi.URLParam(r, "id") != "" {
		editID = entryID(r)
	}
	in := editor.VideoInput{
		URL:         r.PostFormValue("url"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
	}
	res, err := h.editor.SaveVideo(r.Context(), editID, in)
	if fields, ok := validationFields(err); ok {
		view := videoFormView{
			EditID: editID,
			Action: r.URL.Path,
			Video:  content.Video{URL: in.URL, Title: in.Title, Description: in.Description, Category: in.Category},
			Errors: fields,
		}
		if existing, found := findVideo(h.editor.Document(r.Context()), editID); found && editID != "" {
			view.Video.URL = existing.URL
			view.Video.Platform = existing.Platform
		}
		h.render(w, r, http.StatusUnprocessableEntity, "video_form", h.page(r, "videos", videoTitle(editID), view))
		return
	}
	h.finish(w, r, "/videos", "video", res, err)
}

// VideoConfirmDelete asks before removing a video.
func (h *Handlers) VideoConfirmDelete(w http.ResponseWriter, r *http.Request) {
	video, ok := findVideo(h.editor.Document(r.Context()), entryID(r))
	if !ok {
		h.flash(r, session.FlashWarning, "That video no longer exists.")
		h.redirect(w, r, "/videos")
		return
	}
	h.confirmDelete(w, r, "videos", "video", video.Title, "/videos")
}

// VideoDelete removes a video.
func (h *Handlers) VideoDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.DeleteVideo(r.Context(), entryID(r))
	h.finish(w, r, "/videos", "video", res, err)
}

func videoTitle(editID string) string {
	if editID == "" {
		return "Add video"
	}
	return "Edit video"
}

func findVideo(doc content.Document, id string) (content.Video, bool) {
	for _, v := range doc.Videos {
		if v.ID == id {
			return v, true
		}
	}
	return content.Video{}, false
}

type testimonialListView struct {
	Testimonials []content.Testimonial
}

type testimonialFormView struct {
	EditID      string
	Action      string
	Testimonial content.Testimonial
	Errors      content.FieldErrors
}

// Testimonials lists client quotes.
func (h *Handlers) Testimonials(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Document(r.Context())
	h.render(w, r, http.StatusOK, "testimonials", h.page(r, "testimonials", "Testimonials", testimonialListView{Testimonials: doc.Testimonials}))
}

// TestimonialForm renders the add or edit form.
func (h *Handlers) TestimonialForm(w http.ResponseWriter, r *http.Request) {
	view := testimonialFormView{
		Action:      joinBasePath(h.basePath, "/testimonials"),
		Testimonial: content.Testimonial{Rating: content.MaxRating},
	}
	if chi.URLParam(r, "id") != "" {
		id := entryID(r)
		t, ok := findTestimonial(h.editor.Document(r.Context()), id)
		if !ok {
			h.flash(r, session.FlashWarning, "That testimonial no longer exists.")
			h.redirect(w, r, "/testimonials")
			return
		}
		view.EditID = id
		view.Testimonial = t
		view.Action = joinBasePath(h.basePath, "/testimonials/"+chi.URLParam(r, "id"))
	}
	h.render(w, r, http.StatusOK, "testimonial_form", h.page(r, "testimonials", formTitle("testimonial", view.EditID), view))
}

// TestimonialSubmit adds or updates a testimonial.
func (h *Handlers) TestimonialSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	editID := ""
	if chi.URLParam(r, "id") != "" {
		editID = entryID(r)
	}
	rating, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("rating")))
	in := editor.TestimonialInput{
		Name:   r.PostFormValue("name"),
		Role:   r.PostFormValue("role"),
		Text:   r.PostFormValue("text"),
		Rating: rating,
	}
	res, err := h.editor.SaveTestimonial(r.Context(), editID, in)
	if fields, ok := validationFields(err); ok {
		view := testimonialFormView{
			EditID:      editID,
			Action:      r.URL.Path,
			Testimonial: content.Testimonial{Name: in.Name, Role: in.Role, Text: in.Text, Rating: in.Rating},
			Errors:      fields,
		}
		h.render(w, r, http.StatusUnprocessableEntity, "testimonial_form", h.page(r, "testimonials", formTitle("testimonial", editID), view))
		return
	}
	h.finish(w, r, "/testimonials", "testimonial", res, err)
}

// TestimonialConfirmDelete asks before removing a testimonial.
func (h *Handlers) TestimonialConfirmDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := findTestimonial(h.editor.Document(r.Context()), entryID(r))
	if !ok {
		h.flash(r, session.FlashWarning, "That testimonial no longer exists.")
		h.redirect(w, r, "/testimonials")
		return
	}
	h.confirmDelete(w, r, "testimonials", "testimonial", t.Name, "/testimonials")
}

// TestimonialDelete removes a testimonial.
func (h *Handlers) TestimonialDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.DeleteTestimonial(r.Context(), entryID(r))
	h.finish(w, r, "/testimonials", "testimonial", res, err)
}

func findTestimonial(doc content.Document, id string) (content.Testimonial, bool) {
	for _, t := range doc.Testimonials {
		if t.ID == id {
			return t, true
		}
	}
	return content.Testimonial{}, false
}

type serviceListView struct {
	Services []content.Service
}

type serviceFormView struct {
	EditID  string
	Action  string
	Service content.Service
	Errors  content.FieldErrors
}

// Services lists the offerings grid.
func (h *Handlers) Services(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Document(r.Context())
	h.render(w, r, http.StatusOK, "services", h.page(r, "services", "Services", serviceListView{Services: doc.Services}))
}

// ServiceForm renders the add or edit form.
func (h *Handlers) ServiceForm(w http.ResponseWriter, r *http.Request) {
	view := serviceFormView{Action: joinBasePath(h.basePath, "/services")}
	if chi.URLParam(r, "id") != "" {
		id := entryID(r)
		s, ok := findService(h.editor.Document(r.Context()), id)
		if !ok {
			h.flash(r, session.FlashWarning, "That service no longer exists.")
			h.redirect(w, r, "/services")
			return
		}
		view.EditID = id
		view.Service = s
		view.Action = joinBasePath(h.basePath, "/services/"+chi.URLParam(r, "id"))
	}
	h.render(w, r, http.StatusOK, "service_form", h.page(r, "services", formTitle("service", view.EditID), view))
}

// ServiceSubmit adds or updates a service.
func (h *Handlers) ServiceSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	editID := ""
	if chi.URLParam(r, "id") != "" {
		editID = entryID(r)
	}
	in := editor.ServiceInput{
		Icon:        r.PostFormValue("icon"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}
	res, err := h.editor.SaveService(r.Context(), editID, in)
	if fields, ok := validationFields(err); ok {
		view := serviceFormView{
			EditID:  editID,
			Action:  r.URL.Path,
			Service: content.Service{Icon: in.Icon, Title: in.Title, Description: in.Description},
			Errors:  fields,
		}
		h.render(w, r, http.StatusUnprocessableEntity, "service_form", h.page(r, "services", formTitle("service", editID), view))
		return
	}
	h.finish(w, r, "/services", "service", res, err)
}

// ServiceConfirmDelete asks before removing a service.
func (h *Handlers) ServiceConfirmDelete(w http.ResponseWriter, r *http.Request) {
	s, ok := findService(h.editor.Document(r.Context()), entryID(r))
	if !ok {
		h.flash(r, session.FlashWarning, "That service no longer exists.")
		h.redirect(w, r, "/services")
		return
	}
	h.confirmDelete(w, r, "services", "service", s.Title, "/services")
}

// ServiceDelete removes a service.
func (h *Handlers) ServiceDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.DeleteService(r.Context(), entryID(r))
	h.finish(w, r, "/services", "service", res, err)
}

func findService(doc content.Document, id string) (content.Service, bool) {
	for _, s := range doc.Services {
		if s.ID == id {
			return s, true
		}
	}
	return content.Service{}, false
}

func formTitle(noun, editID string) string {
	if editID == "" {
		return "Add " + noun
	}
	return "Edit " + noun
}

type aboutFormView struct {
	About  content.About
	Errors content.FieldErrors
}

// AboutForm renders the biography form.
func (h *Handlers) AboutForm(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Document(r.Context())
	h.render(w, r, http.StatusOK, "about", h.page(r, "about", "About", aboutFormView{About: doc.About}))
}

// AboutSubmit replaces the biography block.
func (h *Handlers) AboutSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := content.About{
		Text:   r.PostFormValue("text"),
		Image:  r.PostFormValue("image"),
		Resume: r.PostFormValue("resume"),
	}
	res, err := h.editor.SaveAbout(r.Context(), in)
	if fields, ok := validationFields(err); ok {
		h.render(w, r, http.StatusUnprocessableEntity, "about", h.page(r, "about", "About", aboutFormView{About: in, Errors: fields}))
		return
	}
	h.finish(w, r, "/about", "about section", res, err)
}

type contactFormView struct {
	Contact content.Contact
	Errors  content.FieldErrors
}

// ContactForm renders the contact channels form.
func (h *Handlers) ContactForm(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Document(r.Context())
	h.render(w, r, http.StatusOK, "contact", h.page(r, "contact", "Contact", contactFormView{Contact: doc.Contact}))
}

// ContactSubmit replaces the contact channels.
func (h *Handlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := content.Contact{
		Email:     r.PostFormValue("email"),
		WhatsApp:  r.PostFormValue("whatsapp"),
		Instagram: r.PostFormValue("instagram"),
		YouTube:   r.PostFormValue("youtube"),
	}
	res, err := h.editor.SaveContact(r.Context(), in)
	if fields, ok := validationFields(err); ok {
		h.render(w, r, http.StatusUnprocessableEntity, "contact", h.page(r, "contact", "Contact", contactFormView{Contact: in, Errors: fields}))
		return
	}
	h.finish(w, r, "/contact", "contact details", res, err)
}
