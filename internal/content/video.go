package content

import (
	"net/url"
	"regexp"
	"strings"
)

// VideoRef is the normalized identity of a pasted video link.
type VideoRef struct {
	Platform Platform
	Type     VideoType
	ID       string
	URL      string
}

// InstagramPlaceholder is shown for platforms without a public thumbnail endpoint.
const InstagramPlaceholder = "data:image/svg+xml;charset=utf-8," +
	"%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 400 225'%3E" +
	"%3Crect width='400' height='225' fill='%23833ab4'/%3E" +
	"%3Ctext x='200' y='120' font-family='sans-serif' font-size='28' fill='white' text-anchor='middle'%3EInstagram Reel%3C/text%3E" +
	"%3C/svg%3E"

var (
	bareIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	drivePattern     = regexp.MustCompile(`drive\.google\.com/file/d/([^/]+)`)
	vimeoPattern     = regexp.MustCompile(`vimeo\.com/(?:.*/)?(\d+)`)
	instagramPattern = regexp.MustCompile(`instagram\.com/reel/([^/?]+)`)
	youtubePatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/shorts/([^&\n?#/]+)`),
	}
)

// ResolveVideo turns a pasted URL or bare id into a platform-specific identity.
// The first matching rule wins; unrecognized input comes back as PlatformUnknown
// with an empty id and the raw string as URL.
func ResolveVideo(raw string) VideoRef {
	input := strings.TrimSpace(raw)
	if input == "" {
		return VideoRef{Platform: PlatformUnknown, Type: VideoTypeVideo}
	}

	if !strings.ContainsAny(input, "/=&?") {
		if bareIDPattern.MatchString(input) {
			return VideoRef{
				Platform: PlatformYouTube,
				Type:     VideoTypeVideo,
				ID:       input,
				URL:      youtubeWatchURL(input),
			}
		}
		return unknownVideo(input)
	}

	if strings.Contains(input, "drive.google.com/file/d/") {
		if m := drivePattern.FindStringSubmatch(input); m != nil && m[1] != "" {
			return VideoRef{Platform: PlatformGoogleDrive, Type: VideoTypeVideo, ID: m[1], URL: input}
		}
	}

	if strings.Contains(input, "vimeo.com/") {
		if m := vimeoPattern.FindStringSubmatch(input); m != nil && m[1] != "" {
			return VideoRef{Platform: PlatformVimeo, Type: VideoTypeVideo, ID: m[1], URL: input}
		}
	}

	if strings.Contains(input, "instagram.com/reel/") {
		if m := instagramPattern.FindStringSubmatch(input); m != nil && m[1] != "" {
			return VideoRef{Platform: PlatformInstagram, Type: VideoTypeReel, ID: m[1], URL: input}
		}
	}

	for _, pattern := range youtubePatterns {
		m := pattern.FindStringSubmatch(input)
		if m == nil || m[1] == "" {
			continue
		}
		id := m[1]
		if i := strings.IndexAny(id, "?&"); i >= 0 {
			id = id[:i]
		}
		kind := VideoTypeVideo
		if strings.Contains(input, "/shorts/") {
			kind = VideoTypeShort
		}
		return VideoRef{Platform: PlatformYouTube, Type: kind, ID: id, URL: youtubeWatchURL(id)}
	}

	return unknownVideo(input)
}

func unknownVideo(raw string) VideoRef {
	return VideoRef{Platform: PlatformUnknown, Type: VideoTypeVideo, URL: raw}
}

func youtubeWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// ThumbnailURL returns the preview image for a video card.
func ThumbnailURL(v Video) string {
	id := url.PathEscape(v.ID)
	switch v.Platform {
	case PlatformYouTube:
		return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
	case PlatformVimeo:
		return "https://vumbnail.com/" + id + ".jpg"
	case PlatformGoogleDrive:
		return "https://drive.google.com/thumbnail?id=" + url.QueryEscape(v.ID) + "&sz=w400-h225"
	default:
		return InstagramPlaceholder
	}
}

// Embed describes how a video card opens when clicked.
type Embed struct {
	// PlayerURL is set for platforms that can play inside the page.
	PlayerURL string
	// ExternalURL is set when the video has to open in a new browsing context.
	ExternalURL string
}

// Inline reports whether the video plays in the in-page modal.
func (e Embed) Inline() bool {
	return e.PlayerURL != ""
}

// EmbedFor resolves the player for a video.
func EmbedFor(v Video) Embed {
	if v.ID == "" {
		return Embed{ExternalURL: v.URL}
	}
	switch v.Platform {
	case PlatformYouTube:
		return Embed{PlayerURL: "https://www.youtube.com/embed/" + url.PathEscape(v.ID) + "?autoplay=1&rel=0"}
	case PlatformVimeo:
		return Embed{PlayerURL: "https://player.vimeo.com/video/" + url.PathEscape(v.ID) + "?autoplay=1"}
	case PlatformGoogleDrive:
		return Embed{PlayerURL: "https://drive.google.com/file/d/" + url.PathEscape(v.ID) + "/preview"}
	default:
		return Embed{ExternalURL: v.URL}
	}
}

// Badge is the platform label drawn over a video thumbnail.
type Badge struct {
	Label string
	Icon  string
}

// PlatformBadge returns the label for a video's platform and format.
func PlatformBadge(v Video) Badge {
	switch v.Platform {
	case PlatformYouTube:
		if v.Type == VideoTypeShort {
			return Badge{Label: "YouTube Short", Icon: "▶"}
		}
		return Badge{Label: "YouTube Video", Icon: "▶"}
	case PlatformVimeo:
		return Badge{Label: "Vimeo Video", Icon: "▶"}
	case PlatformGoogleDrive:
		return Badge{Label: "Google Drive", Icon: "☁"}
	case PlatformInstagram:
		return Badge{Label: "Instagram Reel", Icon: "◎"}
	default:
		return Badge{Label: "Video", Icon: "▶"}
	}
}
