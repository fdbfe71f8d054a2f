// Package redgifs resolves redgifs clip ids to direct mp4 urls and downloads
// them. Redgifs does not serve direct urls in reddit post JSON; a clip id
// must first be resolved through the redgifs API, with a set of guessed CDN
// urls as a fallback when the API is unavailable.
package redgifs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ccollins476ad/redscrape/download"
	log "github.com/sirupsen/logrus"
)

const defaultAPIBase = "https://api.redgifs.com"

// Container suffixes accepted when scanning an API response for a playable
// url.
var videoSuffixes = []string{".mp4", ".mov", ".webm"}

// defaultCDNTemplates are guessed direct urls, probed in order when the API
// lookup fails. Each template receives the clip id.
var defaultCDNTemplates = []string{
	"https://media.redgifs.com/%s.mp4",
	"https://thumbs2.redgifs.com/%s.mp4",
	"https://thumbs3.redgifs.com/%s-mobile.mp4",
}

// Client talks to the redgifs API. The zero value is not usable; construct
// with NewClient. The auth token is fetched lazily on first use and reused
// for every subsequent lookup. A failed token fetch leaves the client
// unauthenticated; the next lookup retries.
type Client struct {
	hc           *http.Client
	apiBase      string
	cdnTemplates []string

	tokenMtx sync.Mutex // Protects the "token" field.
	token    string
}

func NewClient(hc *http.Client) *Client {
	return &Client{
		hc:           hc,
		apiBase:      defaultAPIBase,
		cdnTemplates: defaultCDNTemplates,
	}
}

// NewClientForBase creates a client that targets an alternate API base url
// and CDN template set.
func NewClientForBase(hc *http.Client, apiBase string, cdnTemplates []string) *Client {
	return &Client{
		hc:           hc,
		apiBase:      apiBase,
		cdnTemplates: cdnTemplates,
	}
}

// authToken returns the client's API token, fetching it on first use.
func (c *Client) authToken(ctx context.Context) (string, error) {
	c.tokenMtx.Lock()
	defer c.tokenMtx.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	b, err := download.Get(ctx, c.hc, c.apiBase+"/v2/auth/temporary", nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch redgifs auth token: %v", err)
	}

	var rsp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(b, &rsp); err != nil {
		return "", fmt.Errorf("failed to decode redgifs auth response: %v", err)
	}
	if rsp.Token == "" {
		return "", fmt.Errorf("redgifs auth response lacks token")
	}

	c.token = rsp.Token
	return c.token, nil
}

// lookup asks the redgifs API for the clip with the given id and returns the
// first playable url in the response.
func (c *Client) lookup(ctx context.Context, id string) (string, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return "", err
	}

	header := http.Header{
		"Authorization": []string{"Bearer " + token},
	}

	b, err := download.Get(ctx, c.hc, c.apiBase+"/v2/gifs/"+id, header)
	if err != nil {
		return "", err
	}

	u := firstVideoURL(b)
	if u == "" {
		return "", fmt.Errorf("redgifs response contains no video url: id=%s", id)
	}

	return u, nil
}

// Resolve turns a redgifs clip id into a direct video url. It tries the API
// first; if the lookup fails or yields nothing, it probes the guessed CDN
// urls in order and accepts the first that exists.
func (c *Client) Resolve(ctx context.Context, id string) (string, error) {
	u, err := c.lookup(ctx, id)
	if err == nil {
		log.Debugf("resolved redgifs clip via api: id=%s url=%s", id, u)
		return u, nil
	}
	log.WithError(err).Debugf("redgifs api lookup failed, probing cdn: id=%s", id)

	for _, tmpl := range c.cdnTemplates {
		guess := fmt.Sprintf(tmpl, id)
		if download.Probe(ctx, c.hc, guess) {
			log.Debugf("resolved redgifs clip via cdn probe: id=%s url=%s", id, guess)
			return guess, nil
		}
	}

	return "", fmt.Errorf("failed to resolve redgifs clip: id=%s", id)
}

// firstVideoURL scans a JSON document for the first string value that looks
// like a direct video url, in document order. The redgifs response nests its
// rendition urls at varying depths depending on clip type, so a structural
// scan is more robust than a typed decode.
func firstVideoURL(b []byte) string {
	dec := json.NewDecoder(bytes.NewReader(b))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if s, ok := tok.(string); ok && isVideoURL(s) {
			return s
		}
	}
}

func isVideoURL(s string) bool {
	if !strings.HasPrefix(s, "http") {
		return false
	}
	path := s
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for _, suffix := range videoSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
