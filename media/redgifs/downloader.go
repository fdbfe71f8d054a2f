package redgifs

import (
	"context"

	"github.com/ccollins476ad/redscrape/download"
	"github.com/ccollins476ad/redscrape/extract"
)

// Downloader retrieves redgifs clips linked by watch/embed urls. It
// implements the media.Downloader interface.
type Downloader struct {
	s *download.Store
	c *Client
}

func NewDownloader(s *download.Store, c *Client) *Downloader {
	return &Downloader{
		s: s,
		c: c,
	}
}

// Download resolves and retrieves the redgifs clip at the given watch url.
// See media.Downloader#Download for API details.
func (dl *Downloader) Download(ctx context.Context, u string) (string, error) {
	id := extract.RedgifsIDFromURL(u)
	if id == "" {
		// Not a redgifs watch url.
		return "", nil
	}

	direct, err := dl.c.Resolve(ctx, id)
	if err != nil {
		return "", err
	}

	return dl.s.DownloadVideo(ctx, direct, id+".mp4")
}
