package extract

import (
	"regexp"
	"strings"
)

var (
	// Reddit media urls look like https://<subdomain>.redd.it/<id>.<ext>,
	// e.g. i.redd.it for images, v.redd.it for video, preview.redd.it for
	// preview renditions.
	mediaIDRegexp = regexp.MustCompile(`https?://[a-z0-9-]+\.redd\.it/([A-Za-z0-9_-]+)`)

	extensionRegexp = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|mp4|mov|gifv)($|\?)`)
)

// MediaIDFromURL returns the reddit media id embedded in a redd.it url, or
// the empty string if the url does not carry one.
func MediaIDFromURL(u string) string {
	m := mediaIDRegexp.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtensionFromURL returns the lower-cased file extension of a media url, or
// the empty string if the url does not end in a recognized extension. A
// trailing query string is ignored: ".../img.JPG?width=640" yields "jpg".
func ExtensionFromURL(u string) string {
	m := extensionRegexp.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}
