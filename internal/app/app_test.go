package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlesRenderer/internal/config"
	"ArticlesRenderer/internal/logging"
)

const homeSource = `<!DOCTYPE html>
<html><body>
<p data-home-articles-banner hidden></p>
<p data-home-articles-empty hidden>Nothing yet.</p>
<div data-home-articles-grid></div>
<template id="home-article-card-template"><article><h2 data-issue-article-title></h2></article></template>
</body></html>`

func TestApplicationRendersConfiguredPages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte(homeSource), 0o600))

	cfg := config.Config{
		API:    config.APIConfig{Origin: server.URL},
		Render: config.RenderConfig{Concurrency: 1},
		Pages:  []config.PageConfig{{Name: "home", Input: "index.html", Output: "dist/index.html"}},
	}

	application, err := New(cfg, logging.Discard(), root)
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()))

	out, err := os.ReadFile(filepath.Join(root, "dist", "index.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), `<p data-home-articles-empty="">Nothing yet.</p>`), string(out))
}

func TestApplicationWithoutPages(t *testing.T) {
	t.Parallel()

	application, err := New(config.Config{}, logging.Discard(), "")
	require.NoError(t, err)
	require.Error(t, application.Run(context.Background()))
}

func TestApplicationRejectsBadOrigin(t *testing.T) {
	t.Parallel()

	_, err := New(config.Config{API: config.APIConfig{Origin: "://bad"}}, logging.Discard(), "")
	require.Error(t, err)
}
