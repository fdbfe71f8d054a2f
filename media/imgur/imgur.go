// Package imgur retrieves imgur images and albums linked from post bodies.
package imgur

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ccollins476ad/redscrape/download"
	"github.com/ccollins476ad/redscrape/web"
	"github.com/koffeinsource/go-imgur"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

const (
	clientID = "ab1802d70cb1deb"

	albumAPIBase = "https://api.imgur.com/3/album/"
)

var getHeader = http.Header{
	"Authorization": []string{"Client-ID " + clientID},
	"referer":       []string{"https://imgur.com/"},
	"origin":        []string{"https://imgur.com"},
	"content-type":  []string{"application/json"},
	"user-agent":    []string{"curl/7.84.0"},
}

type albumInfoDataWrapper struct {
	AI      *imgur.AlbumInfo `json:"data"`
	Success bool             `json:"success"`
	Status  int              `json:"status"`
}

// Downloader retrieves imgur images and albums from the web. It implements
// the media.Downloader interface.
type Downloader struct {
	s *download.Store
}

func NewDownloader(s *download.Store) *Downloader {
	return &Downloader{
		s: s,
	}
}

// Download retrieves imgur media from the given url. It can download albums
// and individual images. See media.Downloader#Download for API details.
func (dl *Downloader) Download(ctx context.Context, u string) (string, error) {
	// Album.
	if strings.HasPrefix(u, "https://imgur.com/a/") {
		return dl.downloadAlbum(ctx, u)
	}

	// Gallery page.
	if strings.HasPrefix(u, "https://imgur.com/gallery/") {
		return dl.downloadGalleryPage(ctx, u)
	}

	// Individual image.
	if strings.HasPrefix(u, "https://i.imgur.com/") {
		return dl.s.Download(ctx, u, getHeader)
	}

	// Alternate image url format:
	//     https://imgur.com/<image_id>
	imageID := strings.TrimPrefix(u, "https://imgur.com/")
	if len(imageID) == 7 {
		return dl.s.Download(ctx, "https://i.imgur.com/"+imageID+".jpeg", getHeader)
	}

	return "", nil
}

// albumLinks reads the imgur album at the specified url and returns the urls
// of all its images.
func albumLinks(ctx context.Context, hc *http.Client, u string) ([]string, error) {
	log.Debugf("scanning imgur album: %s", u)

	hash := strings.TrimPrefix(u, "https://imgur.com/a/")
	if len(hash) < 7 {
		return nil, fmt.Errorf("imgur album hash length too short: have=%d want=7 hash=%s", len(hash), hash)
	}
	if len(hash) > 7 {
		// Albums are often linked with a title prefix; the hash is the
		// final 7 characters.
		hash = hash[len(hash)-7:]
	}

	b, err := download.Get(ctx, hc, albumAPIBase+hash, getHeader)
	if err != nil {
		return nil, err
	}

	aidw := &albumInfoDataWrapper{}
	err = json.Unmarshal(b, aidw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode album info: %w", err)
	}
	if !aidw.Success {
		return nil, fmt.Errorf("album info response has success=false")
	}

	var links []string
	for _, img := range aidw.AI.Images {
		log.Debugf("detected imgur album image link: %s", img.Link)
		links = append(links, img.Link)
	}

	return links, nil
}

// galleryImageURLs extracts the urls of all images embedded in an imgur
// gallery page. Relative and non-https srcs are ignored.
func galleryImageURLs(doc *html.Node) []string {
	var urls []string
	for _, ru := range web.EmbeddedImageURLs(doc) {
		if strings.HasPrefix(ru, "https://") {
			urls = append(urls, ru)
		}
	}
	return urls
}

// downloadGalleryPage downloads an imgur gallery from its public page.
// Galleries are not served by the anonymous album API, so the page itself is
// fetched and scanned for embedded images. It downloads each image, then
// builds an html gallery. It returns the path of the gallery.
func (dl *Downloader) downloadGalleryPage(ctx context.Context, u string) (string, error) {
	desc, err := dl.s.EvaluateURL(u)
	if err != nil {
		return "", err
	}

	if desc.IsLocal {
		// Already downloaded.
		return desc.Filename, nil
	}

	body, err := download.GetBody(ctx, dl.s.HTTPClient(), u, getHeader)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := html.Parse(download.NewContextReader(ctx, body))
	if err != nil {
		return "", err
	}

	urls := galleryImageURLs(doc)
	if len(urls) == 0 {
		return "", fmt.Errorf("imgur gallery page contains 0 embedded image urls")
	}

	var filenames []string
	for _, iu := range urls {
		filename, err := dl.s.Download(ctx, iu, getHeader)
		if err != nil {
			return "", err
		}
		filenames = append(filenames, filename)
	}

	gallery := web.BuildGallery(filenames)

	err = dl.s.SaveFile(desc.Filename+".html", []byte(gallery))
	if err != nil {
		return "", err
	}

	return desc.Filename + ".html", nil
}

// downloadAlbum downloads an imgur album from the given url. It downloads
// each constituent image, then builds an html gallery. It returns the path
// of the gallery.
func (dl *Downloader) downloadAlbum(ctx context.Context, albumURL string) (string, error) {
	desc, err := dl.s.EvaluateURL(albumURL)
	if err != nil {
		return "", err
	}

	if desc.IsLocal {
		// Already downloaded.
		return desc.Filename, nil
	}

	urls, err := albumLinks(ctx, dl.s.HTTPClient(), albumURL)
	if err != nil {
		return "", err
	}

	var filenames []string
	for _, u := range urls {
		filename, err := dl.s.Download(ctx, u, getHeader)
		if err != nil {
			return "", err
		}
		filenames = append(filenames, filename)
	}

	gallery := web.BuildGallery(filenames)

	err = dl.s.SaveFile(desc.Filename+".html", []byte(gallery))
	if err != nil {
		return "", err
	}

	return desc.Filename + ".html", nil
}
