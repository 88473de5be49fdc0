package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsmxd/mxdblog/pkg/model"
)

func writePost(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParsePost(t *testing.T) {
	post, err := ParsePost("hello-world", []byte("---\ntitle: Hello\ndate: 2024-05-01\ntags: [go, kv]\ncover: hello.png\ncategory: tech\n---\n\n# Hello\n"))
	require.NoError(t, err)

	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, model.PostMeta{
		Title:    "Hello",
		Date:     "2024-05-01",
		Tags:     []string{"go", "kv"},
		Cover:    "/images/hello.png",
		Category: "tech",
	}, post.Meta)
	assert.Equal(t, "# Hello\n", post.Content)
}

func TestParsePost_WithoutFrontMatter(t *testing.T) {
	post, err := ParsePost("plain", []byte("just content"))
	require.NoError(t, err)

	assert.Equal(t, "", post.Meta.Title)
	assert.Equal(t, model.DefaultCover, post.Meta.Cover)
	assert.Equal(t, "just content", post.Content)
}

func TestParsePost_Invalid(t *testing.T) {
	_, err := ParsePost("unclosed", []byte("---\ntitle: x\n"))
	assert.Error(t, err)

	_, err = ParsePost("bad-yaml", []byte("---\ntitle: [x\n---\n"))
	assert.Error(t, err)
}

func TestBlogLoader(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ntitle: A\ndate: 2024-01-01\ncategory: go\ntags: [kv]\n---\na")
	writePost(t, dir, "b.md", "---\ntitle: B\ndate: 2024-03-01\ncategory: life\ntags: [kv, misc]\n---\nb")
	writePost(t, dir, "c.md", "---\ntitle: C\n---\nc")
	writePost(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts.md"), 0o755))

	data, err := New(dir).Exec()
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, data.Posts.Slugs())
	assert.Equal(t, []string{"go", "life"}, data.Categories)
	assert.Equal(t, []string{"kv", "misc"}, data.Tags)
}

func TestBlogLoader_MissingDir(t *testing.T) {
	data, err := New(filepath.Join(t.TempDir(), "not-exists")).Exec()
	require.NoError(t, err)
	assert.Empty(t, data.Posts)
}

func TestBlogLoader_SkipInvalidPost(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ntitle: A\n---\na")
	writePost(t, dir, "unclosed.md", "---\ntitle: x\n")
	writePost(t, dir, "bad-yaml.md", "---\ntitle: [x\n---\n")

	l := New(dir)
	data, err := l.Exec()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, data.Posts.Slugs())
	assert.ElementsMatch(t, []string{"unclosed.md", "bad-yaml.md"}, l.Skipped())
}
