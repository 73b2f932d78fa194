package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("parses result URLs", func(t *testing.T) {
		var gotQuery, gotLimit, gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotLimit = r.URL.Query().Get("limit")
			gotKey = r.Header.Get("x-api-key")
			w.Write([]byte(`{"results":[{"url":"https://a.test/1"},{"url":"https://b.test/2"},{"url":""}]}`))
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, "secret-key", time.Second)
		urls, err := p.Search(ctx, "some exact phrase", 5)
		require.NoError(t, err)

		assert.Equal(t, []string{"https://a.test/1", "https://b.test/2"}, urls)
		assert.Equal(t, "some exact phrase", gotQuery)
		assert.Equal(t, "5", gotLimit)
		assert.Equal(t, "secret-key", gotKey)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, "", time.Second)
		_, err := p.Search(ctx, "phrase", 5)
		assert.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, "", time.Second)
		_, err := p.Search(ctx, "phrase", 5)
		assert.Error(t, err)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, "", time.Minute)
		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := p.Search(cctx, "phrase", 5)
		assert.Error(t, err)
	})
}
