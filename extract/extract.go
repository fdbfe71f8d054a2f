// Package extract turns raw reddit post JSON into normalized media
// descriptors. Extraction is pure computation: no I/O, no errors for
// missing or malformed fields. A field that is absent or has the wrong
// shape simply means the rule does not match.
package extract

import (
	"html"
	"strings"

	"github.com/ccollins476ad/redscrape/reddit"
)

// Media types carried by a Descriptor.
const (
	TypeImage = "image"
	TypeVideo = "video"
)

// Descriptor is a normalized, self-contained record describing one piece of
// media found in a reddit post, plus enough post identity to name and trace
// the file it resolves to.
//
// URL and Provider are mutually informative: when Provider is set, URL may be
// empty and the media id must be resolved out-of-band before download; when
// Provider is empty, URL is directly fetchable.
type Descriptor struct {
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
	Subreddit string `json:"subreddit"`
	Author    string `json:"author"`
	ID        string `json:"id"`
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	MediaID   string `json:"media_id,omitempty"`
	Extension string `json:"extension,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// rule is one extraction step. Rules are independent: a post may match more
// than one, and every match contributes descriptors. Order determines output
// order only.
type rule func(data reddit.Message, base Descriptor) []Descriptor

var rules = []rule{
	extractEmbed,
	extractGallery,
	extractSingleImage,
	extractSingleVideo,
	extractFallbackPreview,
}

// Post extracts all media descriptors from a single reddit post. The post
// may be a listing child ({kind, data}) or a bare {data: {...}} object.
func Post(post reddit.Message) []Descriptor {
	data := post.GetMessage("data")

	base := Descriptor{
		Title:     data.GetString("title"),
		Permalink: "https://www.reddit.com" + data.GetString("permalink"),
		Subreddit: data.GetString("subreddit"),
		Author:    data.GetString("author"),
		ID:        data.GetString("id"),
	}

	var ds []Descriptor
	for _, r := range rules {
		for _, d := range r(data, base) {
			// Provider descriptors fill their own id and extension; direct
			// descriptors derive whatever is missing from the chosen url.
			if d.Provider == "" {
				if d.MediaID == "" {
					d.MediaID = MediaIDFromURL(d.URL)
				}
				if d.Extension == "" {
					d.Extension = ExtensionFromURL(d.URL)
				}
			}
			ds = append(ds, d)
		}
	}

	return ds
}

// Listing extracts media descriptors from every post child of a listing, in
// listing order. Children of any other kind (comments, subreddit references)
// are ignored.
func Listing(children []reddit.Message) []Descriptor {
	var ds []Descriptor
	for _, c := range children {
		if c.GetString("kind") == "t3" {
			ds = append(ds, Post(c)...)
		}
	}
	return ds
}

// staticImageSuffixes is the whitelist for the single-image rule. The match
// is a case-sensitive suffix check: reddit serves direct image urls
// lower-cased. Note mp4/mov are deliberately not listed here; reddit-hosted
// video posts carry a reddit_video object and are handled by the
// single-video rule.
var staticImageSuffixes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// extractGallery extracts all images/videos from a gallery post. Gallery
// items whose media id is missing from the metadata map are skipped; reddit
// regularly serves incomplete gallery posts and that is not an error.
func extractGallery(data reddit.Message, base Descriptor) []Descriptor {
	if !data.GetBool("is_gallery") {
		return nil
	}
	metadata := data.GetMessage("media_metadata")
	if metadata == nil {
		return nil
	}

	var ds []Descriptor
	items := data.GetMessage("gallery_data").GetMessages("items")
	for _, item := range items {
		mediaID := item.GetString("media_id")
		info := metadata.GetMessage(mediaID)
		if info == nil {
			continue
		}

		source := info.GetMessage("s")

		switch info.GetString("e") {
		case "Image":
			u := source.GetString("u")
			if u == "" {
				continue
			}
			d := base
			d.Type = TypeImage
			d.URL = html.UnescapeString(u)
			d.MediaID = mediaID
			ds = append(ds, d)

		case "Video":
			u := source.GetString("mp4")
			if u == "" {
				u = source.GetString("u")
			}
			if u == "" {
				continue
			}
			d := base
			d.Type = TypeVideo
			d.URL = html.UnescapeString(u)
			d.MediaID = mediaID
			ds = append(ds, d)
		}
	}

	return ds
}

// extractSingleImage extracts single image posts (non-gallery).
func extractSingleImage(data reddit.Message, base Descriptor) []Descriptor {
	u := data.GetString("url_overridden_by_dest")
	for _, suffix := range staticImageSuffixes {
		if strings.HasSuffix(u, suffix) {
			d := base
			d.Type = TypeImage
			d.URL = u
			return []Descriptor{d}
		}
	}
	return nil
}

// extractSingleVideo extracts reddit-hosted video posts. The media object
// lives under "media" or "secure_media" depending on the post.
func extractSingleVideo(data reddit.Message, base Descriptor) []Descriptor {
	media := data.GetMessage("media")
	if media == nil {
		media = data.GetMessage("secure_media")
	}

	u := media.GetMessage("reddit_video").GetString("fallback_url")
	if u == "" {
		return nil
	}

	d := base
	d.Type = TypeVideo
	d.URL = u
	return []Descriptor{d}
}

// extractFallbackPreview extracts a representative image from the post's
// preview list. Previews are attached to most posts; this rule recovers
// media when the primary fields were stripped or are unsupported.
func extractFallbackPreview(data reddit.Message, base Descriptor) []Descriptor {
	images := data.GetMessage("preview").GetMessages("images")
	if len(images) == 0 {
		return nil
	}

	u := images[0].GetMessage("source").GetString("url")
	if u == "" {
		return nil
	}

	d := base
	d.Type = TypeImage
	d.URL = html.UnescapeString(u)
	return []Descriptor{d}
}
