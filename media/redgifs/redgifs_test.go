package redgifs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveViaAPI(t *testing.T) {
	authCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/auth/temporary", func(w http.ResponseWriter, r *http.Request) {
		authCalls++
		w.Write([]byte(`{"token": "tok123"}`))
	})
	mux.HandleFunc("/v2/gifs/quickfox", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"gif": {
			"id": "quickfox",
			"urls": {
				"poster": "https://cdn.example.com/quickfox-poster.jpg",
				"hd": "https://cdn.example.com/quickfox.mp4",
				"sd": "https://cdn.example.com/quickfox-mobile.mp4"
			}
		}}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClientForBase(srv.Client(), srv.URL, nil)

	// The poster jpg precedes the renditions in document order but is not a
	// video url; the first mp4 wins.
	u, err := c.Resolve(context.Background(), "quickfox")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/quickfox.mp4", u)

	// The auth token is fetched once and reused.
	_, err = c.Resolve(context.Background(), "quickfox")
	require.NoError(t, err)
	assert.Equal(t, 1, authCalls)
}

func TestResolveCDNFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/auth/temporary", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token": "tok123"}`))
	})
	mux.HandleFunc("/v2/gifs/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/cdn2/lazydog.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	// The first guess 404s; the second exists.
	templates := []string{
		srv.URL + "/cdn1/%s.mp4",
		srv.URL + "/cdn2/%s.mp4",
	}
	c := NewClientForBase(srv.Client(), srv.URL, templates)

	u, err := c.Resolve(context.Background(), "lazydog")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/cdn2/lazydog.mp4", u)
}

func TestResolveExhaustion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	templates := []string{srv.URL + "/cdn/%s.mp4"}
	c := NewClientForBase(srv.Client(), srv.URL, templates)

	_, err := c.Resolve(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestAuthFailureRetried(t *testing.T) {
	authCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/auth/temporary", func(w http.ResponseWriter, r *http.Request) {
		authCalls++
		if authCalls == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"token": "tok456"}`))
	})
	mux.HandleFunc("/v2/gifs/quickfox", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gif": {"urls": {"hd": "https://cdn.example.com/quickfox.mp4"}}}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClientForBase(srv.Client(), srv.URL, nil)

	// First resolve fails at auth and has no CDN guesses to fall back on.
	_, err := c.Resolve(context.Background(), "quickfox")
	require.Error(t, err)

	// A failed auth does not poison the client; the next call retries.
	u, err := c.Resolve(context.Background(), "quickfox")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/quickfox.mp4", u)
	assert.Equal(t, 2, authCalls)
}

func TestFirstVideoURL(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"encounter order",
			`{"a": "https://x/1.mp4", "b": "https://x/2.mp4"}`,
			"https://x/1.mp4",
		},
		{
			"nested",
			`{"outer": {"inner": ["https://x/t.jpg", {"deep": "https://x/clip.mp4"}]}}`,
			"https://x/clip.mp4",
		},
		{
			"query string ignored",
			`{"u": "https://x/clip.mp4?expires=9"}`,
			"https://x/clip.mp4?expires=9",
		},
		{
			"non-url mp4 string rejected",
			`{"filename": "clip.mp4"}`,
			"",
		},
		{
			"no match",
			`{"u": "https://x/t.jpg"}`,
			"",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, firstVideoURL([]byte(c.body)))
		})
	}
}
