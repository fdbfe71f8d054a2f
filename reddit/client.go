package reddit

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"

	"github.com/ccollins476ad/redscrape/download"
	log "github.com/sirupsen/logrus"
)

const defaultBase = "https://www.reddit.com"

// pageSize is the largest page reddit serves per listing request.
const pageSize = 100

// userAgents is rotated per request. Reddit throttles unknown or repeated
// agents aggressively on the public json endpoints.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// Client fetches listings from reddit's public json endpoints.
type Client struct {
	hc   *http.Client
	base string
}

func NewClient(hc *http.Client) *Client {
	return &Client{
		hc:   hc,
		base: defaultBase,
	}
}

// NewClientForBase creates a client that targets an alternate base url.
func NewClientForBase(hc *http.Client, base string) *Client {
	return &Client{
		hc:   hc,
		base: base,
	}
}

// ListingOptions selects which listing to fetch and how much of it.
type ListingOptions struct {
	Name       string // Subreddit name, or username when User is set.
	User       bool   // Fetch a user profile's submissions instead of a subreddit.
	Category   string // new, hot, top, controversial, rising.
	TimeFilter string // all, year, month, week, day, hour. Only meaningful for top/controversial.
	Limit      int    // Maximum number of children to return.
}

// listingURL builds the request url for one page of the listing.
func (c *Client) listingURL(opts ListingOptions, limit int, after string) string {
	var path string
	if opts.User {
		path = fmt.Sprintf("/user/%s/submitted.json", opts.Name)
	} else {
		path = fmt.Sprintf("/r/%s/%s.json", opts.Name, opts.Category)
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	if opts.User && opts.Category != "" {
		q.Set("sort", opts.Category)
	}
	if opts.TimeFilter != "" {
		q.Set("t", opts.TimeFilter)
	}
	if after != "" {
		q.Set("after", after)
	}

	return c.base + path + "?" + q.Encode()
}

// Listing fetches up to opts.Limit children of the selected listing,
// paginating with reddit's "after" cursor. It returns the children in
// listing order.
func (c *Client) Listing(ctx context.Context, opts ListingOptions) ([]Message, error) {
	var children []Message
	after := ""

	for len(children) < opts.Limit {
		pageLimit := opts.Limit - len(children)
		if pageLimit > pageSize {
			pageLimit = pageSize
		}

		// A fresh agent per request, not per listing.
		header := http.Header{
			"User-Agent": []string{userAgents[rand.Intn(len(userAgents))]},
		}

		u := c.listingURL(opts, pageLimit, after)
		log.Debugf("fetching listing page: %s", u)

		b, err := download.Get(ctx, c.hc, u, header)
		if err != nil {
			return children, err
		}

		page, err := ParseListingPage(b)
		if err != nil {
			return children, err
		}
		if len(page.Children) == 0 {
			break
		}

		children = append(children, page.Children...)

		if page.After == "" {
			// Listing exhausted.
			break
		}
		after = page.After
	}

	if len(children) > opts.Limit {
		children = children[:opts.Limit]
	}

	return children, nil
}
