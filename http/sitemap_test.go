package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Read_Sitemap(t *testing.T) {
	t.Parallel()

	t.Run("reads every article in a sitemap index", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>/kb/sitemap-1.xml</loc></sitemap>
  <sitemap><loc>/kb/sitemap-2.xml</loc></sitemap>
  <sitemap><loc>/kb/sitemap-1.xml</loc></sitemap>
</sitemapindex>`))
		})
		mux.HandleFunc("/kb/sitemap-1.xml", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>/kb/KB-001.md</loc></url>
  <url><loc> </loc></url>
  <url><lastmod>2024-01-01</lastmod></url>
</urlset>`))
		})
		mux.HandleFunc("/kb/sitemap-2.xml", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>/kb/KB-002.md</loc></url>
  <url><loc>/kb/KB-001.md</loc></url>
</urlset>`))
		})
		mux.HandleFunc("/kb/KB-001.md", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("**Article ID:** KB-001\n"))
		})
		mux.HandleFunc("/kb/KB-002.md", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("**Article ID:** KB-002\n"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		blobs, err := newTestSource().Read(context.Background(), server.URL+"/sitemap.xml")

		require.NoError(t, err)
		require.Len(t, blobs, 2)
		assert.Equal(t, server.URL+"/kb/KB-001.md", blobs[0].Origin)
		assert.Equal(t, server.URL+"/kb/KB-002.md", blobs[1].Origin)
		assert.Equal(t, "**Article ID:** KB-002\n", blobs[1].Content)
	})

	t.Run("fragments do not duplicate an article", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>/kb/KB-001.md#overview</loc></url>
  <url><loc>/kb/KB-001.md</loc></url>
  <url><loc>/kb/KB-001.md#steps</loc></url>
</urlset>`))
		})
		mux.HandleFunc("/kb/KB-001.md", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("**Article ID:** KB-001\n"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		blobs, err := newTestSource().Read(context.Background(), server.URL+"/sitemap.xml")

		require.NoError(t, err)
		require.Len(t, blobs, 1)
		assert.Equal(t, server.URL+"/kb/KB-001.md", blobs[0].Origin)
	})

	t.Run("sitemap index cycles are followed once", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		hits := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			hits++
			mu.Unlock()
			_, _ = w.Write([]byte(`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>/kb/sitemap.xml</loc></sitemap>
  <sitemap><loc>/sitemap.xml</loc></sitemap>
</sitemapindex>`))
		})
		mux.HandleFunc("/kb/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>/sitemap.xml#again</loc></sitemap>
</sitemapindex>`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		blobs, err := newTestSource().Read(context.Background(), server.URL+"/sitemap.xml")

		require.NoError(t, err)
		assert.Empty(t, blobs)
		assert.Equal(t, 1, hits)
	})

	t.Run("rejects malformed XML", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<urlset><url><loc>unclosed`))
		}))
		defer server.Close()

		_, err := newTestSource().Read(context.Background(), server.URL+"/sitemap.xml")

		require.Error(t, err)
		assert.Equal(t, kbase.EMALFORMED, kbase.ErrorCode(err))
	})

	t.Run("missing sitemap is not found", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := newTestSource().Read(context.Background(), server.URL+"/sitemap.xml")

		assert.Equal(t, kbase.ENOTFOUND, kbase.ErrorCode(err))
	})
}
