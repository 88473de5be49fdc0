package model

import "time"

// ReadCounter 阅读计数（仅 KV_BACKEND=mysql 时落库）
type ReadCounter struct {
	Name      string    `json:"name" gorm:"type:varchar(191);primaryKey"`
	Total     int64     `json:"total" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName ...
func (ReadCounter) TableName() string {
	return "read_counter"
}

// ReadCount 单篇文章阅读数
type ReadCount struct {
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// Stats 阅读数汇总
type Stats struct {
	PostsCount int              `json:"postsCount"`
	TotalReads int64            `json:"totalReads"`
	PerPost    map[string]int64 `json:"perPost"`
}

// EmptyStats 统计失败时降级返回的空数据
func EmptyStats() Stats {
	return Stats{PostsCount: 0, TotalReads: 0, PerPost: map[string]int64{}}
}
