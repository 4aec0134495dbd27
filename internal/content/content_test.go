package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsMissingLists(t *testing.T) {
	t.Parallel()

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"about":{"text":"hi"},"testimonials":[{"id":"t1","rating":9}],"submissions":[{"id":"s1"}]}`), &doc))
	doc.Normalize()

	require.NotNil(t, doc.Videos)
	require.NotNil(t, doc.Services)
	require.Equal(t, MaxRating, doc.Testimonials[0].Rating)
	require.Equal(t, StatusNew, doc.Submissions[0].Status)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"videos":[]`)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	doc := Empty()
	doc.Videos = append(doc.Videos, Video{ID: "a", Title: "A"})
	clone := doc.Clone()
	clone.Videos[0].Title = "changed"
	clone.Videos = append(clone.Videos, Video{ID: "b"})

	require.Equal(t, "A", doc.Videos[0].Title)
	require.Len(t, doc.Videos, 1)
}

func TestPublicDropsSubmissions(t *testing.T) {
	t.Parallel()

	doc := Empty()
	doc.Submissions = []Submission{{ID: "s1", Name: "Ann", Status: StatusNew}}
	require.Empty(t, doc.Public().Submissions)
	require.Len(t, doc.Submissions, 1)
	require.Equal(t, 1, doc.NewSubmissionCount())
}

func TestNewIDUniqueWithinSameInstant(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID(now)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	doc, err := Seed()
	require.NoError(t, err)
	require.NotEmpty(t, doc.Videos)
	require.NotEmpty(t, doc.Services)
	require.Empty(t, doc.Submissions)
	require.NotNil(t, doc.Submissions)
}

func TestLoadSeedFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - id: s1\n    title: Editing\n"), 0o600))

	doc, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, doc.Services, 1)
	require.Empty(t, doc.Videos)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestContactFormValidate(t *testing.T) {
	t.Parallel()

	valid := ContactForm{Name: "Ann", Phone: "9876543210", Message: "Hello"}
	require.True(t, valid.Validate().Empty())

	withEmail := valid
	withEmail.Email = "ann@example.com"
	require.True(t, withEmail.Validate().Empty())

	errs := ContactForm{}.Validate()
	require.Equal(t, "Name is required", errs["name"])
	require.Equal(t, "Phone number is required", errs["phone"])
	require.Equal(t, "Message is required", errs["message"])
	_, hasEmail := errs["email"]
	require.False(t, hasEmail)

	long := ContactForm{
		Name:    strings.Repeat("a", 31),
		Email:   "averyverylongaddress@example.com",
		Phone:   "12345",
		Message: "  ",
	}
	errs = long.Validate()
	require.Equal(t, "Name must be maximum 30 characters long", errs["name"])
	require.Equal(t, "Email must be maximum 20 characters long", errs["email"])
	require.Equal(t, "Please enter a valid 10-digit phone number", errs["phone"])
	require.Equal(t, "Message is required", errs["message"])

	bad := valid
	bad.Email = "ann@host"
	require.Equal(t, "Please enter a valid email address", bad.Validate()["email"])
	require.Equal(t, []string{"email"}, bad.Validate().Fields())
}

func TestTestimonialValidate(t *testing.T) {
	t.Parallel()

	require.True(t, Testimonial{Name: "A", Text: "Great", Rating: 5}.Validate().Empty())
	errs := Testimonial{Rating: 0}.Validate()
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "text")
	require.Contains(t, errs, "rating")
}

func TestLinks(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://drive.google.com/thumbnail?id=abc123&sz=w1000", DriveImageURL("https://drive.google.com/file/d/abc123/view?usp=sharing"))
	require.Equal(t, "https://drive.google.com/thumbnail?id=xyz&sz=w1000", DriveImageURL("https://drive.google.com/open?id=xyz&authuser=0"))
	require.Equal(t, "https://cdn.example.com/me.jpg", DriveImageURL(" https://cdn.example.com/me.jpg "))

	require.Equal(t, "mailto:me@example.com", MailtoURL("me@example.com"))
	require.Equal(t, "", MailtoURL(" "))
	require.Equal(t, "https://wa.me/919876543210", WhatsAppURL("+91 98765-43210"))
	require.Equal(t, "https://www.instagram.com/editor/", InstagramURL("@editor"))
	require.Equal(t, "@editor", InstagramHandle("editor"))

	require.Equal(t, "★★★☆☆", Stars(3))
	require.Equal(t, "★★★★★", Stars(7))
}

func TestSubmissionTime(t *testing.T) {
	t.Parallel()

	s := Submission{Timestamp: "2025-03-01T10:00:00Z"}
	require.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), s.Time().UTC())
	require.True(t, Submission{Timestamp: "garbage"}.Time().IsZero())
}
