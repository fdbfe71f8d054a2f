package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultTimeout bounds the worst-case stall of a single http operation.
// There are no retries; a slow or dead server costs at most this much.
const DefaultTimeout = 30 * time.Second

// Response performs an http GET with url=u using the supplied client and
// header. It returns an error for any non-2xx status. The caller owns the
// response body.
func Response(ctx context.Context, hc *http.Client, u string, header http.Header) (*http.Response, error) {
	log.Debugf("get: %s", u)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	rsp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		rsp.Body.Close()
		return nil, fmt.Errorf("error status: %s", rsp.Status)
	}

	return rsp, nil
}

// GetBody performs an http GET with url=u and returns the response body.
func GetBody(ctx context.Context, hc *http.Client, u string, header http.Header) (io.ReadCloser, error) {
	rsp, err := Response(ctx, hc, u, header)
	if err != nil {
		return nil, err
	}
	return rsp.Body, nil
}

// Get calls GetBody(), then reads the full response and returns the result.
func Get(ctx context.Context, hc *http.Client, u string, header http.Header) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	body, err := GetBody(ctx, hc, u, header)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(NewContextReader(ctx, body))
}

// Probe performs an http HEAD with url=u and reports whether the resource
// exists (i.e., the server responded 200). Transport errors count as
// nonexistence.
func Probe(ctx context.Context, hc *http.Client, u string) bool {
	log.Debugf("head: %s", u)

	req, err := http.NewRequestWithContext(ctx, "HEAD", u, nil)
	if err != nil {
		return false
	}

	rsp, err := hc.Do(req)
	if err != nil {
		log.Debugf("probe failed: url=%s err=%v", u, err)
		return false
	}
	rsp.Body.Close()

	return rsp.StatusCode == http.StatusOK
}
