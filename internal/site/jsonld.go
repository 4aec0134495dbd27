package site

import (
	"encoding/json"
	"html/template"
	"strings"
)

// videoGallery returns a schema.org ItemList of VideoObject entries for the
// work gallery, or an empty string when there are no videos.
func videoGallery(cards []VideoCard) template.JS {
	if len(cards) == 0 {
		return ""
	}
	items := make([]map[string]any, 0, len(cards))
	for i, card := range cards {
		video := map[string]any{
			"@type": "VideoObject",
			"name":  firstNonBlank(card.Title, "Untitled video"),
		}
		if card.Description != "" {
			video["description"] = card.Description
		}
		if thumb := string(card.Thumbnail); strings.HasPrefix(thumb, "https://") || strings.HasPrefix(thumb, "http://") {
			video["thumbnailUrl"] = thumb
		}
		if card.PlayerURL != "" {
			video["embedUrl"] = card.PlayerURL
		}
		if card.ExternalURL != "" {
			video["url"] = card.ExternalURL
		}
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     video,
		})
	}
	return jsonLD(map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"itemListElement": items,
	})
}

// jsonLD marshals v for a ld+json script block. It returns an empty string on
// error. json.Marshal escapes <, > and & so the output cannot close the tag.
func jsonLD(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
