package extract

import (
	"html"
	"regexp"
	"strings"

	"github.com/ccollins476ad/redscrape/reddit"
	"github.com/ccollins476ad/redscrape/web"
)

// ProviderRedgifs marks descriptors whose media id must be resolved through
// the redgifs API before download.
const ProviderRedgifs = "redgifs"

const redgifsDomain = "redgifs.com"

var (
	// Watch and embed page urls, e.g. https://www.redgifs.com/watch/<id> or
	// https://redgifs.com/ifr/<id>. Checked first; these carry the id
	// verbatim.
	redgifsWatchRegexp = regexp.MustCompile(`(?i)redgifs\.com/(?:watch|ifr)/([A-Za-z0-9]+)`)

	// Thumbnail slugs, e.g. https://thumbs2.redgifs.com/<Id>-mobile.jpg.
	// Lower priority; thumbnail names sometimes decorate the id.
	redgifsThumbRegexp = regexp.MustCompile(`(?i)thumbs[0-9]*\.redgifs\.com/([A-Za-z0-9]+)`)
)

// extractEmbed detects posts that embed a redgifs clip. Reddit encodes the
// embed redundantly (domain field, override url, embed html, media type tag,
// oembed provider); any one signal is enough. A matching post with no
// recoverable id yields nothing: a descriptor with neither url nor id is
// useless downstream.
func extractEmbed(data reddit.Message, base Descriptor) []Descriptor {
	if !isRedgifsPost(data) {
		return nil
	}

	id := RedgifsID(data)
	if id == "" {
		return nil
	}

	d := base
	d.Type = TypeVideo
	d.MediaID = id
	d.Provider = ProviderRedgifs
	d.Extension = "mp4" // redgifs serves mp4 containers
	return []Descriptor{d}
}

func isRedgifsPost(data reddit.Message) bool {
	if strings.Contains(data.GetString("domain"), redgifsDomain) {
		return true
	}
	if strings.Contains(data.GetString("url_overridden_by_dest"), redgifsDomain) {
		return true
	}
	if strings.Contains(data.GetMessage("secure_media_embed").GetString("content"), redgifsDomain) {
		return true
	}
	if strings.Contains(data.GetMessage("media_embed").GetString("content"), redgifsDomain) {
		return true
	}

	media := data.GetMessage("media")
	if strings.Contains(media.GetString("type"), redgifsDomain) {
		return true
	}
	provider := media.GetMessage("oembed").GetString("provider_name")
	return strings.EqualFold(provider, "redgifs")
}

// RedgifsID extracts a redgifs clip id from a post's url, embed html, or
// oembed thumbnail. Watch/embed urls win over thumbnail slugs. These
// patterns are heuristic over the url shapes redgifs has used; an
// unrecognized future shape yields "".
func RedgifsID(data reddit.Message) string {
	embeds := []string{
		data.GetMessage("secure_media_embed").GetString("content"),
		data.GetMessage("media_embed").GetString("content"),
		data.GetMessage("media").GetMessage("oembed").GetString("html"),
	}

	candidates := []string{data.GetString("url_overridden_by_dest")}
	for _, fragment := range embeds {
		if fragment == "" {
			continue
		}
		// Embed html arrives entity-escaped. Prefer the parsed iframe src;
		// fall back to matching the raw fragment.
		if src := web.IframeSrc(html.UnescapeString(fragment)); src != "" {
			candidates = append(candidates, src)
		}
		candidates = append(candidates, fragment)
	}

	for _, c := range candidates {
		if m := redgifsWatchRegexp.FindStringSubmatch(c); m != nil {
			return m[1]
		}
	}

	candidates = append(candidates, data.GetMessage("media").GetMessage("oembed").GetString("thumbnail_url"))
	for _, c := range candidates {
		if m := redgifsThumbRegexp.FindStringSubmatch(c); m != nil {
			return m[1]
		}
	}

	return ""
}

// RedgifsIDFromURL extracts a redgifs clip id from a bare watch/embed url,
// e.g. one harvested from a selftext body.
func RedgifsIDFromURL(u string) string {
	m := redgifsWatchRegexp.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return m[1]
}
