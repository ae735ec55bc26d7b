package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func urls(posts []domain.PostDescriptor) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.URL
	}
	return out
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	posts, err := NewLoader().Load("/nonexistent/path/posts.json")

	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Nil(t, posts)
}

func TestLoader_Load_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.Mkdir(path, 0755))

	posts, err := NewLoader().Load(path)

	assert.Error(t, err)
	assert.Nil(t, posts)
	assert.Contains(t, err.Error(), "failed to read manifest file")
}

func TestLoader_Load_ValidJSON(t *testing.T) {
	path := writeManifest(t, "posts.json", `[
		{"url": "https://example.com/a", "tags": ["ml", "ops"]},
		{
			"url": "  https://example.com/b  ",
			"title": "Custom",
			"author": "Jane",
			"description": "Desc",
			"published_time": "2024-05-01T00:00:00Z",
			"site_name": "Example",
			"image": "https://example.com/b.png"
		}
	]`)

	posts, err := NewLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "https://example.com/a", posts[0].URL)
	assert.Equal(t, []string{"ml", "ops"}, posts[0].Tags)

	assert.Equal(t, domain.PostDescriptor{
		URL:           "https://example.com/b",
		Title:         "Custom",
		Author:        "Jane",
		Description:   "Desc",
		PublishedTime: "2024-05-01T00:00:00Z",
		SiteName:      "Example",
		Image:         "https://example.com/b.png",
		Tags:          []string{},
	}, posts[1])
}

func TestLoader_Load_ValidYAML(t *testing.T) {
	path := writeManifest(t, "posts.yaml", `
- url: https://example.com/a
  tags: [ml]
- url: https://example.com/b
  published_time: "2024-05-01"
  site_name: Example
`)

	posts, err := NewLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, []string{"ml"}, posts[0].Tags)
	assert.Equal(t, "2024-05-01", posts[1].PublishedTime)
	assert.Equal(t, "Example", posts[1].SiteName)
}

func TestLoader_Load_PreservesOrderAndEntryProblems(t *testing.T) {
	path := writeManifest(t, "posts.json", `[
		{"url": "https://example.com/3"},
		{"url": ""},
		{"url": "https://example.com/1"},
		{"url": "https://example.com/3"}
	]`)

	posts, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/3",
		"",
		"https://example.com/1",
		"https://example.com/3",
	}, urls(posts))
}

func TestLoader_Load_InvalidJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `[{"url": "https://example.com"`},
		{"object instead of list", `{"url": "https://example.com"}`},
		{"wrong field type", `[{"url": 42}]`},
		{"tags not a list", `[{"url": "https://example.com", "tags": "ml"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := NewLoader().Load(writeManifest(t, "posts.json", tt.content))
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.Nil(t, posts)
		})
	}
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	posts, err := NewLoader().Load(writeManifest(t, "posts.yml", "- url: [unclosed"))

	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Nil(t, posts)
}

func TestLoadFromBytes_EmptyList(t *testing.T) {
	posts, err := NewLoader().LoadFromBytes([]byte(`[]`), ".json")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	posts, err = NewLoader().LoadFromBytes([]byte(`null`), ".json")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestLoadFromBytes_UnknownExtensionUsesJSON(t *testing.T) {
	posts, err := NewLoader().LoadFromBytes([]byte(`[{"url": "https://example.com"}]`), "")
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = NewLoader().LoadFromBytes([]byte("- url: https://example.com"), ".txt")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoadFromBytes_CaseInsensitiveExt(t *testing.T) {
	yamlContent := []byte("- url: https://example.com")

	posts, err := NewLoader().LoadFromBytes(yamlContent, ".YAML")
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = NewLoader().LoadFromBytes(yamlContent, ".Yml")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestLoader_Read(t *testing.T) {
	path := writeManifest(t, "posts.json", `[{"url": "https://example.com"}]`)

	data, err := NewLoader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"url": "https://example.com"}]`, string(data))

	_, err = NewLoader().Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}
