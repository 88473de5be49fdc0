package model

import (
	"strings"
)

// DefaultCover 未指定封面时使用的默认封面
const DefaultCover = "/images/default-cover.svg"

// PostMeta 文章元数据（来自 markdown front matter）
type PostMeta struct {
	Title       string   `json:"title" yaml:"title"`
	Date        string   `json:"date,omitempty" yaml:"date"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Cover       string   `json:"cover,omitempty" yaml:"cover"`
	Category    string   `json:"category,omitempty" yaml:"category"`
}

// Post 文章
type Post struct {
	Slug    string   `json:"slug"`
	Meta    PostMeta `json:"meta"`
	Content string   `json:"content,omitempty"`
}

// Posts 文章列表
type Posts []Post

// BlogData 博客数据
type BlogData struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Posts      Posts    `json:"posts"`
}

// GetBySlug 根据 slug 获取文章
func (ps Posts) GetBySlug(slug string) *Post {
	for idx := range ps {
		if ps[idx].Slug == slug {
			return &ps[idx]
		}
	}
	return nil
}

// FilterByCategory 根据分类过滤文章
func (ps Posts) FilterByCategory(category string) Posts {
	posts := Posts{}
	for _, post := range ps {
		if post.Meta.Category == category {
			posts = append(posts, post)
		}
	}
	return posts
}

// FilterByTag 根据标签过滤文章
func (ps Posts) FilterByTag(tag string) Posts {
	posts := Posts{}
	for _, post := range ps {
		for _, t := range post.Meta.Tags {
			if t == tag {
				posts = append(posts, post)
				break
			}
		}
	}
	return posts
}

// Slugs 获取所有文章的 slug（保持原有顺序）
func (ps Posts) Slugs() []string {
	slugs := make([]string, 0, len(ps))
	for _, post := range ps {
		slugs = append(slugs, post.Slug)
	}
	return slugs
}

// WithoutContent 去掉正文，用于列表接口
func (ps Posts) WithoutContent() Posts {
	posts := make(Posts, 0, len(ps))
	for _, post := range ps {
		post.Content = ""
		posts = append(posts, post)
	}
	return posts
}

// NormalizeCover 规范化封面地址：
// 空值使用默认封面，绝对路径（/...）与外链（http/https）保持不变，裸文件名补全为 /images/xxx
func NormalizeCover(cover string) string {
	cover = strings.TrimSpace(cover)
	if cover == "" {
		return DefaultCover
	}
	lower := strings.ToLower(cover)
	if strings.HasPrefix(cover, "/") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return cover
	}
	return "/images/" + cover
}
