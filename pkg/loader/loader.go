package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TencentBlueKing/gopkg/collection/set"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/model"
)

// PostExt 文章文件后缀
const PostExt = ".md"

var frontMatterDelimiter = []byte("---")

// BlogLoader 博客文章加载器：读取目录下的 markdown 文件，解析 front matter
type BlogLoader struct {
	dir      string
	logger   *logrus.Logger
	blogData model.BlogData
	// 解析失败被跳过的文件
	skipped []string
}

// New ...
func New(dir string) *BlogLoader {
	return &BlogLoader{
		dir:      dir,
		logger:   logging.GetSystemLogger(),
		blogData: model.BlogData{Posts: model.Posts{}},
	}
}

// Skipped Exec 过程中因格式错误被跳过的文件
func (l *BlogLoader) Skipped() []string {
	return l.skipped
}

func (l *BlogLoader) Exec() (*model.BlogData, error) {
	for _, f := range []func() error{
		l.loadPosts,
		l.sortPosts,
		l.collectCategories,
		l.collectTags,
	} {
		if err := f(); err != nil {
			return nil, err
		}
	}
	return &l.blogData, nil
}

// 加载文章，目录不存在时视为没有文章；读取失败仍视为整体失败
func (l *BlogLoader) loadPosts() error {
	entries, err := os.ReadDir(l.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read posts dir %s", l.dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), PostExt) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			return errors.Wrapf(err, "read post %s", entry.Name())
		}
		// 单篇文章格式错误只跳过该文件，不影响其他文章
		post, err := ParsePost(strings.TrimSuffix(entry.Name(), PostExt), content)
		if err != nil {
			l.logger.WithError(err).Warnf("skip invalid post %s", entry.Name())
			l.skipped = append(l.skipped, entry.Name())
			continue
		}
		l.blogData.Posts = append(l.blogData.Posts, *post)
	}
	return nil
}

// 按日期倒序（日期为 YYYY-MM-DD 格式字符串，可直接比较）
func (l *BlogLoader) sortPosts() error {
	sort.SliceStable(l.blogData.Posts, func(i, j int) bool {
		return l.blogData.Posts[i].Meta.Date > l.blogData.Posts[j].Meta.Date
	})
	return nil
}

// 从元数据中采集分类信息
func (l *BlogLoader) collectCategories() error {
	categories := set.NewStringSet()
	for _, post := range l.blogData.Posts {
		if post.Meta.Category != "" {
			categories.Append(post.Meta.Category)
		}
	}
	l.blogData.Categories = categories.ToSlice()
	sort.Strings(l.blogData.Categories)
	return nil
}

// 从元数据中采集标签信息
func (l *BlogLoader) collectTags() error {
	tags := set.NewStringSet()
	for _, post := range l.blogData.Posts {
		tags.Append(post.Meta.Tags...)
	}
	l.blogData.Tags = tags.ToSlice()
	sort.Strings(l.blogData.Tags)
	return nil
}

// ParsePost 解析单篇文章：可选的 YAML front matter（以 --- 包裹）+ 正文
func ParsePost(slug string, content []byte) (*model.Post, error) {
	post := &model.Post{Slug: slug}

	meta, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, errors.Wrapf(err, "parse post %s", slug)
	}
	if len(meta) != 0 {
		if err = yaml.Unmarshal(meta, &post.Meta); err != nil {
			return nil, errors.Wrapf(err, "parse front matter of post %s", slug)
		}
	}
	post.Meta.Cover = model.NormalizeCover(post.Meta.Cover)
	post.Content = string(body)
	return post, nil
}

func splitFrontMatter(content []byte) (meta, body []byte, err error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	firstLine, rest, _ := bytes.Cut(content, []byte("\n"))
	if !bytes.Equal(bytes.TrimSpace(firstLine), frontMatterDelimiter) {
		return nil, content, nil
	}

	lines := bytes.SplitAfter(rest, []byte("\n"))
	offset := 0
	for _, line := range lines {
		if bytes.Equal(bytes.TrimSpace(line), frontMatterDelimiter) {
			return rest[:offset], bytes.TrimLeft(rest[offset+len(line):], "\r\n"), nil
		}
		offset += len(line)
	}
	return nil, nil, errors.New("front matter is not closed")
}
