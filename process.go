package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccollins476ad/redscrape/download"
	"github.com/ccollins476ad/redscrape/export"
	"github.com/ccollins476ad/redscrape/extract"
	"github.com/ccollins476ad/redscrape/fileutil"
	"github.com/ccollins476ad/redscrape/media"
	"github.com/ccollins476ad/redscrape/media/imgur"
	"github.com/ccollins476ad/redscrape/media/redgifs"
	"github.com/ccollins476ad/redscrape/reddit"
	"github.com/ccollins476ad/redscrape/web"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"mvdan.cc/xurls/v2"
)

// itemTimeout bounds the worst-case stall of a single media download.
const itemTimeout = 60 * time.Second

// scrape fetches the configured listing, extracts media descriptors from its
// posts, downloads each descriptor, saves media links found in selftext
// bodies, and writes the export records and an html gallery to the
// destination directory.
func scrape(ctx context.Context, cfg *Config) error {
	children, err := fetchChildren(ctx, cfg)
	if err != nil {
		return err
	}
	log.Debugf("fetched %d listing children", len(children))

	if err := fileutil.EnsureDir(cfg.DestDir); err != nil {
		return err
	}

	s := download.NewStore(cfg.DestDir)
	rg := redgifs.NewClient(s.HTTPClient())

	descriptors := extract.Listing(children)
	log.Infof("extracted %d media descriptors from %d posts", len(descriptors), len(children))

	paths := downloadAll(ctx, cfg, s, rg, descriptors)

	harvested := harvestPostBodies(ctx, s, rg, children)

	var saved []string
	for _, p := range paths {
		if p != "" {
			saved = append(saved, p)
		}
	}
	saved = append(saved, harvested...)

	if len(saved) > 0 {
		gallery := web.BuildGallery(saved)
		if err := s.SaveFile("index.html", []byte(gallery)); err != nil {
			return err
		}
	}

	return exportRecords(cfg, descriptors, paths)
}

// fetchChildren returns the listing children to process. If the source names
// an existing json file, the listing is read from disk; otherwise it is
// fetched from reddit.
func fetchChildren(ctx context.Context, cfg *Config) ([]reddit.Message, error) {
	if fileutil.FileExists(cfg.Source) {
		log.Debugf("reading listing from file: %s", cfg.Source)
		return reddit.ReadListing(cfg.Source)
	}

	c := reddit.NewClient(&http.Client{})
	return c.Listing(ctx, reddit.ListingOptions{
		Name:       cfg.Source,
		User:       cfg.User,
		Category:   cfg.Category,
		TimeFilter: cfg.TimeFilter,
		Limit:      cfg.Limit,
	})
}

// downloadAll downloads every descriptor, cfg.Jobs at a time. It returns one
// local path per descriptor, in descriptor order; a failed item yields "".
// Failures are logged and swallowed: partial success across a batch is the
// expected common case.
func downloadAll(ctx context.Context, cfg *Config, s *download.Store, rg *redgifs.Client, descriptors []extract.Descriptor) []string {
	paths := make([]string, len(descriptors))
	g := &errgroup.Group{}

	idxChan := make(chan int)

	for i := 0; i < cfg.Jobs; i++ {
		g.Go(func() error {
			for idx := range idxChan {
				d := descriptors[idx]
				path, err := downloadDescriptor(ctx, s, rg, d)
				if err != nil {
					log.WithError(err).Errorf("failed to download media: post=%s media_id=%s url=%s", d.ID, d.MediaID, d.URL)
					continue
				}
				paths[idx] = path
			}
			return nil
		})
	}

	feed := func() {
		defer close(idxChan)

		for i := range descriptors {
			select {
			case <-ctx.Done():
				// Operation aborted. Return early to execute deferred
				// channel close.
				return
			case idxChan <- i:
			}
		}
	}
	feed()

	g.Wait()
	return paths
}

// downloadDescriptor turns one media descriptor into bytes on disk. It
// resolves provider descriptors through the provider's API first.
func downloadDescriptor(ctx context.Context, s *download.Store, rg *redgifs.Client, d extract.Descriptor) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, itemTimeout)
	defer cancel()

	u := d.URL
	if u == "" {
		if d.Provider != extract.ProviderRedgifs {
			return "", fmt.Errorf("descriptor has no url and unknown provider: provider=%s", d.Provider)
		}
		var err error
		u, err = rg.Resolve(ctx, d.MediaID)
		if err != nil {
			return "", err
		}
	}

	filename := descriptorFilename(d, u)

	if d.Type == extract.TypeVideo {
		return s.DownloadVideo(ctx, u, filename)
	}
	return s.DownloadAs(ctx, u, nil, filename)
}

// descriptorFilename builds a stable local filename for a descriptor:
// <post_id>_<media_id>.<ext>. It returns "" if the descriptor carries no
// identity, in which case the store names the file after its url.
func descriptorFilename(d extract.Descriptor, u string) string {
	name := d.ID
	if d.MediaID != "" && d.MediaID != d.ID {
		if name != "" {
			name += "_"
		}
		name += d.MediaID
	}
	if name == "" {
		return ""
	}

	ext := d.Extension
	if ext == "" {
		ext = extract.ExtensionFromURL(u)
	}
	if ext != "" {
		name += "." + ext
	}

	return name
}

// harvestPostBodies scans post selftext bodies for media links that the
// extraction rules cannot see (imgur pages and albums, redgifs watch urls)
// and downloads them through the matching site downloader. It returns the
// local paths of everything saved.
func harvestPostBodies(ctx context.Context, s *download.Store, rg *redgifs.Client, children []reddit.Message) []string {
	dls := []media.Downloader{
		imgur.NewDownloader(s),
		redgifs.NewDownloader(s, rg),
	}

	dlOnce := func(dl media.Downloader, u string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, itemTimeout)
		defer cancel()

		return dl.Download(ctx, u)
	}

	rx := xurls.Strict()

	var saved []string
	for _, c := range children {
		if c.GetString("kind") != "t3" {
			continue
		}

		body := c.GetMessage("data").GetString("selftext")
		if strings.TrimSpace(body) == "" {
			continue
		}

		for _, link := range rx.FindAllString(body, -1) {
			for _, dl := range dls {
				filename, err := dlOnce(dl, link)
				if err != nil {
					log.WithError(err).Errorf("failed to save selftext link: link=%s", link)
					break
				}
				if filename != "" {
					saved = append(saved, filename)
					break
				}
			}
		}
	}

	return saved
}

// exportRecords serializes the descriptor records (with the local path of
// each downloaded file) in the configured format.
func exportRecords(cfg *Config, descriptors []extract.Descriptor, paths []string) error {
	if len(descriptors) == 0 {
		log.Infof("no media descriptors to export")
		return nil
	}

	records := make([]map[string]any, len(descriptors))
	for i, d := range descriptors {
		records[i] = map[string]any{
			"title":      d.Title,
			"permalink":  d.Permalink,
			"subreddit":  d.Subreddit,
			"author":     d.Author,
			"id":         d.ID,
			"type":       d.Type,
			"url":        d.URL,
			"media_id":   d.MediaID,
			"extension":  d.Extension,
			"provider":   d.Provider,
			"local_path": paths[i],
		}
	}

	switch cfg.Export {
	case "csv":
		return export.CSV(filepath.Join(cfg.DestDir, "media.csv"), records)
	default:
		return export.JSON(filepath.Join(cfg.DestDir, "media.json"), records)
	}
}
