package content

import "time"

// Platform identifies where a video is hosted.
type Platform string

const (
	PlatformYouTube     Platform = "youtube"
	PlatformVimeo       Platform = "vimeo"
	PlatformInstagram   Platform = "instagram"
	PlatformGoogleDrive Platform = "googledrive"
	PlatformUnknown     Platform = "unknown"
)

// VideoType distinguishes long-form videos from vertical formats.
type VideoType string

const (
	VideoTypeVideo VideoType = "video"
	VideoTypeShort VideoType = "short"
	VideoTypeReel  VideoType = "reel"
)

// SubmissionStatus tracks whether the admin has looked at a contact submission.
type SubmissionStatus string

const (
	StatusNew  SubmissionStatus = "new"
	StatusRead SubmissionStatus = "read"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Document is the single JSON object holding all site content and submissions.
type Document struct {
	Videos       []Video       `json:"videos" yaml:"videos"`
	Testimonials []Testimonial `json:"testimonials" yaml:"testimonials"`
	Services     []Service     `json:"services" yaml:"services"`
	About        About         `json:"about" yaml:"about"`
	Contact      Contact       `json:"contact" yaml:"contact"`
	Submissions  []Submission  `json:"submissions" yaml:"submissions"`
}

// Video is one entry of the work gallery.
type Video struct {
	ID          string    `json:"id" yaml:"id"`
	Platform    Platform  `json:"platform" yaml:"platform"`
	Type        VideoType `json:"type" yaml:"type"`
	URL         string    `json:"url" yaml:"url"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
}

// Testimonial is a client quote with a star rating.
type Testimonial struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"role" yaml:"role"`
	Text   string `json:"text" yaml:"text"`
	Rating int    `json:"rating" yaml:"rating"`
}

// Service is an offering shown in the services grid.
type Service struct {
	ID          string `json:"id" yaml:"id"`
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// About holds the biography block.
type About struct {
	Text   string `json:"text,omitempty" yaml:"text"`
	Image  string `json:"image,omitempty" yaml:"image"`
	Resume string `json:"resume,omitempty" yaml:"resume"`
}

// Contact holds the public contact channels.
type Contact struct {
	Email     string `json:"email,omitempty" yaml:"email"`
	WhatsApp  string `json:"whatsapp,omitempty" yaml:"whatsapp"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram"`
	YouTube   string `json:"youtube,omitempty" yaml:"youtube"`
}

// Submission is a message left through the public contact form.
type Submission struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Email     string           `json:"email" yaml:"email"`
	Phone     string           `json:"phone" yaml:"phone"`
	Message   string           `json:"message" yaml:"message"`
	Timestamp string           `json:"timestamp" yaml:"timestamp"`
	Status    SubmissionStatus `json:"status" yaml:"status"`
}

// Time parses the stored RFC 3339 timestamp. Unparseable values yield the zero time.
func (s Submission) Time() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// IsNew reports whether the submission has not been read yet.
func (s Submission) IsNew() bool {
	return s.Status != StatusRead
}

// Empty returns the document used when nothing has ever been stored.
func Empty() Document {
	doc := Document{}
	doc.Normalize()
	return doc
}

// Normalize replaces missing lists with empty ones and repairs out-of-range
// values so renderers never have to nil-check.
func (d *Document) Normalize() {
	if d.Videos == nil {
		d.Videos = []Video{}
	}
	if d.Testimonials == nil {
		d.Testimonials = []Testimonial{}
	}
	if d.Services == nil {
		d.Services = []Service{}
	}
	if d.Submissions == nil {
		d.Submissions = []Submission{}
	}
	for i := range d.Videos {
		v := &d.Videos[i]
		if v.Platform == "" {
			v.Platform = PlatformUnknown
		}
		if v.Type == "" {
			v.Type = VideoTypeVideo
		}
	}
	for i := range d.Testimonials {
		d.Testimonials[i].Rating = ClampRating(d.Testimonials[i].Rating)
	}
	for i := range d.Submissions {
		if d.Submissions[i].Status != StatusRead {
			d.Submissions[i].Status = StatusNew
		}
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Videos = append([]Video(nil), d.Videos...)
	out.Testimonials = append([]Testimonial(nil), d.Testimonials...)
	out.Services = append([]Service(nil), d.Services...)
	out.Submissions = append([]Submission(nil), d.Submissions...)
	out.Normalize()
	return out
}

// Public returns a copy without contact submissions, safe to expose to visitors.
func (d Document) Public() Document {
	out := d.Clone()
	out.Submissions = []Submission{}
	return out
}

// NewSubmissionCount returns how many submissions are still unread.
func (d Document) NewSubmissionCount() int {
	n := 0
	for _, s := range d.Submissions {
		if s.IsNew() {
			n++
		}
	}
	return n
}

// ClampRating forces a rating into the supported star range.
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
