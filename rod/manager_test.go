//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Open(t *testing.T) {
	t.Parallel()

	t.Run("returns session for loaded page", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><div id="feed">Loading...</div>
<script>document.getElementById('feed').textContent = 'Rendered feed';</script>
</body></html>`))
		}))
		defer srv.Close()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		defer manager.Close()

		session, err := manager.Open(context.Background(), srv.URL+"/user/creator")
		require.NoError(t, err)
		defer session.Close()

		html, err := session.HTML(context.Background())
		require.NoError(t, err)
		assert.Contains(t, html, "Rendered feed")

		u, err := session.URL(context.Background())
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/user/creator", u)
	})

	t.Run("honors canceled context", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		defer manager.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = manager.Open(ctx, "http://example.com")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("navigation timeout does not outlive a successful load", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>feed</body></html>`))
		}))
		defer srv.Close()

		manager, err := rod.NewBrowserManager(rod.WithNavigateTimeout(300 * time.Millisecond))
		require.NoError(t, err)
		defer manager.Close()

		session, err := manager.Open(context.Background(), srv.URL)
		require.NoError(t, err)
		defer session.Close()

		time.Sleep(500 * time.Millisecond)

		height, err := session.ScrollHeight(context.Background())
		require.NoError(t, err)
		assert.Positive(t, height)
	})

	t.Run("times out on slow pages", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body>late</body></html>`))
		}))
		defer srv.Close()

		manager, err := rod.NewBrowserManager(rod.WithNavigateTimeout(100 * time.Millisecond))
		require.NoError(t, err)
		defer manager.Close()

		_, err = manager.Open(context.Background(), srv.URL)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("fails after close", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		require.NoError(t, manager.Close())

		_, err = manager.Open(context.Background(), "http://example.com")

		require.Error(t, err)
		assert.Equal(t, creatorscan.EINVALID, creatorscan.ErrorCode(err))
		assert.Contains(t, creatorscan.ErrorMessage(err), "closed")
	})
}

func TestBrowserManager_Close_Idempotent(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
}
