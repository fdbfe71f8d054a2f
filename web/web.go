package web

import (
	"fmt"
	"strings"
)

var videoSuffixes = []string{".mp4", ".mov", ".webm"}

func isVideoFilename(f string) bool {
	for _, suffix := range videoSuffixes {
		if strings.HasSuffix(f, suffix) {
			return true
		}
	}
	return false
}

// BuildGallery constructs an html web page displaying the media files with
// the given filenames. Video files get a player element, everything else an
// image element.
func BuildGallery(filenames []string) string {
	sb := strings.Builder{}

	sb.WriteString(`<!DOCTYPE html>
<html>
<body>
`)

	for _, f := range filenames {
		if isVideoFilename(f) {
			sb.WriteString(fmt.Sprintf("<video controls src=\"%s\"></video>\n", f))
		} else {
			sb.WriteString(fmt.Sprintf("<img src=\"%s\" alt=\"%s\" style=\"background-size:100%% 100%%\">\n", f, f))
		}
	}

	sb.WriteString(`</body>
</html>
`)

	return sb.String()
}
