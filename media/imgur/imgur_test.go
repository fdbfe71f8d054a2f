package imgur

import (
	"context"
	"strings"
	"testing"

	"github.com/ccollins476ad/redscrape/download"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGalleryImageURLs(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body>
		<img src="https://i.imgur.com/abc1234.jpg">
		<img src="/images/relative.png">
		<img src="http://i.imgur.com/insecure.jpg">
		<div><img src="https://i.imgur.com/def5678.png"></div>
	</body></html>`))
	require.NoError(t, err)

	urls := galleryImageURLs(doc)
	assert.Equal(t, []string{
		"https://i.imgur.com/abc1234.jpg",
		"https://i.imgur.com/def5678.png",
	}, urls)
}

func TestGalleryImageURLsEmptyPage(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body><p>nothing here</p></body></html>`))
	require.NoError(t, err)

	assert.Empty(t, galleryImageURLs(doc))
}

func TestDownloadUnrecognizedURL(t *testing.T) {
	dl := NewDownloader(download.NewStore(t.TempDir()))

	// Urls the downloader does not know how to save yield "" with no error.
	filename, err := dl.Download(context.Background(), "https://example.com/pic.jpg")
	require.NoError(t, err)
	assert.Empty(t, filename)
}
