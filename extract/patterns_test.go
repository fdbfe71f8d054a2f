package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://i.redd.it/abc123.jpg", "abc123"},
		{"https://v.redd.it/xyz/DASH_720.mp4", "xyz"},
		{"https://preview.redd.it/under_score-id.png?width=1", "under_score-id"},
		{"http://i.redd.it/plain.gif", "plain"},
		{"https://example.com/abc.jpg", ""},
		{"https://i.imgur.com/abc.jpg", ""},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, MediaIDFromURL(c.url), c.url)
	}
}

func TestExtensionFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://i.redd.it/img.jpg", "jpg"},
		{"https://i.redd.it/img.JPG?width=640", "jpg"},
		{"https://i.redd.it/img.JPEG", "jpeg"},
		{"https://v.redd.it/vid.mp4?source=fallback", "mp4"},
		{"https://i.redd.it/anim.GifV", "gifv"},
		{"https://i.redd.it/noext", ""},
		{"https://i.redd.it/file.txt", ""},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ExtensionFromURL(c.url), c.url)
	}
}
