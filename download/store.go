package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ccollins476ad/redscrape/fileutil"
	"github.com/flytam/filenamify"
	log "github.com/sirupsen/logrus"
)

var AlreadyAttempted = errors.New("download already attempted")

// chunkSize is the buffer size used when streaming response bodies to disk.
const chunkSize = 8192

// videoHeader mimics a browser request. Reddit's video servers reject
// requests that lack these.
var videoHeader = http.Header{
	"User-Agent": []string{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"},
	"Referer":    []string{"https://www.reddit.com/"},
	"Accept":     []string{"video/mp4,video/*;q=0.9,*/*;q=0.8"},
}

// Store saves remote media files under a destination directory. It remembers
// urls it has already attempted so that a batch never fetches the same media
// twice.
type Store struct {
	destDir string // constant

	hc *http.Client

	seenMtx sync.Mutex          // Protects the "seen" field.
	seen    map[string]struct{} // Media URLs we have already seen.
}

// Desc decribes a media file.
type Desc struct {
	Filename string // Relative to destination directory
	IsLocal  bool   // True if file already downloaded
}

func NewStore(destDir string) *Store {
	return NewStoreWithClient(destDir, &http.Client{})
}

// NewStoreWithClient creates a store that reuses the caller's http client
// across all downloads. The store never closes or reconfigures the client.
func NewStoreWithClient(destDir string, hc *http.Client) *Store {
	return &Store{
		destDir: destDir,
		hc:      hc,
		seen:    map[string]struct{}{},
	}
}

// EvaluateURL returns a descriptor for the media file that the given url
// points to. It does not download anything. The `IsLocal` field in the
// descriptor is true if the file has already been downloaded.
func (s *Store) EvaluateURL(u string) (*Desc, error) {
	filename, err := URLToFilename(u)
	if err != nil {
		log.WithError(err).Errorf("failed to convert url to filename: url=%s", u)
		return nil, err
	}
	return s.evaluate(u, filename)
}

func (s *Store) evaluate(u string, filename string) (*Desc, error) {
	destPath := filepath.Join(s.destDir, filename)
	if fileutil.FileExists(destPath) {
		log.Debugf("skipping %s: file already exists: %s", u, destPath)
		return &Desc{
			Filename: filename,
			IsLocal:  true,
		}, nil
	}

	if s.see(u) {
		return nil, AlreadyAttempted
	}

	return &Desc{
		Filename: filename,
		IsLocal:  false,
	}, nil
}

// SaveFile writes the given bytes under the destination directory.
func (s *Store) SaveFile(relPath string, b []byte) error {
	destPath := filepath.Join(s.destDir, relPath)
	if err := fileutil.EnsureDir(filepath.Dir(destPath)); err != nil {
		return err
	}
	return os.WriteFile(destPath, b, 0644)
}

// saveStream streams the given reader to a file under the destination
// directory, creating parent directories as needed.
func (s *Store) saveStream(ctx context.Context, relPath string, body io.Reader) error {
	destPath := filepath.Join(s.destDir, relPath)
	if err := fileutil.EnsureDir(filepath.Dir(destPath)); err != nil {
		return err
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	_, err = io.CopyBuffer(f, NewContextReader(ctx, body), buf)
	if err != nil {
		return fmt.Errorf("failed to save http response: %v", err)
	}

	return nil
}

// DownloadAs ensures the given media file has been downloaded. It downloads
// the file if it is not already on disk. The filename parameter specifies the
// local path of the file, relative to the store's destination directory. It
// infers the filename from the url if filename is "". It returns the local
// path of the media file, relative to the destination directory.
func (s *Store) DownloadAs(ctx context.Context, u string, header http.Header, filename string) (string, error) {
	if filename == "" {
		var err error
		filename, err = URLToFilename(u)
		if err != nil {
			return "", err
		}
	}

	desc, err := s.evaluate(u, filename)
	if err != nil {
		return "", err
	}

	if desc.IsLocal {
		// Already downloaded.
		return desc.Filename, nil
	}

	body, err := GetBody(ctx, s.hc, u, header)
	if err != nil {
		return "", err
	}
	defer body.Close()

	log.Infof("downloading %s", filepath.Join(s.destDir, desc.Filename))
	err = s.saveStream(ctx, desc.Filename, body)
	if err != nil {
		return "", err
	}

	return desc.Filename, nil
}

// Download ensures the given media file has been downloaded. It downloads the
// file if it is not already on disk. It returns the local path of the media
// file, relative to the destination directory.
func (s *Store) Download(ctx context.Context, u string, header http.Header) (string, error) {
	return s.DownloadAs(ctx, u, header, "")
}

// DownloadVideo downloads a video file from the given url. It sends
// browser-like headers because reddit's video servers gate on them, and it
// warns (without failing) if the response does not look like video content.
func (s *Store) DownloadVideo(ctx context.Context, u string, filename string) (string, error) {
	if filename == "" {
		var err error
		filename, err = URLToFilename(u)
		if err != nil {
			return "", err
		}
	}

	desc, err := s.evaluate(u, filename)
	if err != nil {
		return "", err
	}

	if desc.IsLocal {
		return desc.Filename, nil
	}

	rsp, err := Response(ctx, s.hc, u, videoHeader)
	if err != nil {
		return "", err
	}
	defer rsp.Body.Close()

	contentType := rsp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		log.Warnf("url does not appear to be a video: url=%s content_type=%s", u, contentType)
	}

	log.Infof("downloading %s", filepath.Join(s.destDir, desc.Filename))
	err = s.saveStream(ctx, desc.Filename, rsp.Body)
	if err != nil {
		return "", err
	}

	return desc.Filename, nil
}

// HTTPClient returns the store's http client.
func (s *Store) HTTPClient() *http.Client {
	return s.hc
}

// see returns true if the store has already attempted to download the
// specified media url. Otherwise, it marks the url as "seen" and returns
// false.
func (s *Store) see(u string) bool {
	s.seenMtx.Lock()
	defer s.seenMtx.Unlock()

	_, ok := s.seen[u]
	if ok {
		return true
	}

	s.seen[u] = struct{}{}
	return false
}

// URLToFilename returns the local filename that redscrape would use to save
// the given media url.
func URLToFilename(u string) (string, error) {
	body, err := filenamify.Filenamify(u, filenamify.Options{})
	if err != nil {
		return "", err
	}
	return "_redscrape_" + body, nil
}
