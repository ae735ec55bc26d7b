package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and returns stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type workspace struct {
	manifest  string
	cacheFile string
}

func newWorkspace(t *testing.T, manifestJSON string) *workspace {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	ws := &workspace{
		manifest:  filepath.Join(dir, "posts.json"),
		cacheFile: filepath.Join(dir, "posts.cache.json"),
	}
	require.NoError(t, os.WriteFile(ws.manifest, []byte(manifestJSON), 0644))
	return ws
}

func (w *workspace) args(args ...string) []string {
	return append(args, "--manifest", w.manifest, "--cache-file", w.cacheFile, "--log-format", "json")
}

func newBlogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:title" content="Hello"><meta name="author" content="Kit"></head></html>`)
	})
	mux.HandleFunc("/world", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>World</title></head></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "blogdata")
}

func TestBuild(t *testing.T) {
	server := newBlogServer(t)
	ws := newWorkspace(t, fmt.Sprintf(`[
		{"url": "%s/hello", "tags": ["intro"]},
		{"url": "%s/world", "title": "Override"}
	]`, server.URL, server.URL))

	stdout, _, err := execute(t, ws.args()...)
	require.NoError(t, err)

	var records []domain.PostRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Hello", records[0].Title)
	assert.Equal(t, "Kit", records[0].Author)
	assert.Equal(t, []string{"intro"}, records[0].Tags)
	assert.Equal(t, "Override", records[1].Title)
	assert.FileExists(t, ws.cacheFile)
}

func TestBuild_OutputFile(t *testing.T) {
	server := newBlogServer(t)
	ws := newWorkspace(t, fmt.Sprintf(`[{"url": "%s/hello"}]`, server.URL))
	output := filepath.Join(t.TempDir(), "theme", "blog.json")

	stdout, _, err := execute(t, ws.args("--output", output)...)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Hello"`)
}

func TestBuild_NoCache(t *testing.T) {
	server := newBlogServer(t)
	ws := newWorkspace(t, fmt.Sprintf(`[{"url": "%s/hello"}]`, server.URL))

	_, _, err := execute(t, ws.args("--no-cache")...)
	require.NoError(t, err)
	assert.NoFileExists(t, ws.cacheFile)
}

func TestBuild_MissingManifest(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := execute(t, "--manifest", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest file not found")
}

func TestBuild_RejectsArgs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := execute(t, "https://example.com")
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	server := newBlogServer(t)
	ws := newWorkspace(t, fmt.Sprintf(`[{"url": "%s/hello"}]`, server.URL))

	stdout, _, err := execute(t, ws.args("cache", "status")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "missing")

	_, _, err = execute(t, ws.args()...)
	require.NoError(t, err)

	stdout, _, err = execute(t, ws.args("cache", "status")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "fresh")
	assert.Contains(t, stdout, ws.cacheFile)

	require.NoError(t, os.WriteFile(ws.manifest, []byte(`[]`), 0644))
	stdout, _, err = execute(t, ws.args("cache", "status")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "stale")

	stdout, _, err = execute(t, ws.args("cache", "clear")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cache cleared")
	assert.NoFileExists(t, ws.cacheFile)
}

func TestConfigFile(t *testing.T) {
	ws := newWorkspace(t, `[]`)

	cfgPath := filepath.Join(t.TempDir(), "blogdata.yaml")
	content := fmt.Sprintf("manifest:\n  path: %s\ncache:\n  path: %s\n", ws.manifest, ws.cacheFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	stdout, _, err := execute(t, "--config", cfgPath, "--log-format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
	assert.FileExists(t, ws.cacheFile)
}

func TestConfigFile_Missing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestDoctor(t *testing.T) {
	ws := newWorkspace(t, `[
		{"url": "https://example.com/a"},
		{"url": ""},
		{"url": "https://example.com/a"}
	]`)

	stdout, _, err := execute(t, ws.args("doctor")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Config: OK (defaults, ")
	assert.Contains(t, stdout, "OK (3 posts)")
	assert.Contains(t, stdout, "entry 2: empty URL")
	assert.Contains(t, stdout, "entry 3: duplicate URL (first listed as entry 1)")
	assert.Contains(t, stdout, "All checks passed!")
}

func TestDoctor_InvalidManifest(t *testing.T) {
	ws := newWorkspace(t, `{"posts": []}`)

	stdout, _, err := execute(t, ws.args("doctor")...)
	assert.Error(t, err)
	assert.Contains(t, stdout, "Manifest: FAILED")
}

func TestManifestProblems(t *testing.T) {
	problems := manifestProblems([]domain.PostDescriptor{
		{URL: "https://example.com/1"},
		{URL: "mailto:someone@example.com"},
		{URL: "https://example.com/1"},
	})

	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "entry 2: invalid URL")
	assert.Contains(t, problems[1], "entry 3: duplicate URL")

	assert.Empty(t, manifestProblems(nil))
}

func TestShortDigest(t *testing.T) {
	assert.Equal(t, "abc", shortDigest("abc"))
	assert.Equal(t, "0123456789ab", shortDigest("0123456789abcdef"))
}
