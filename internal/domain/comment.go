package domain

import "time"

// Comment represents the comments table. Replies point at a parent in the same article.
type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ArticleID uint64    `gorm:"column:article_id;not null;index:idx_comments_article_parent,priority:1" json:"article_id"`
	ParentID  *uint64   `gorm:"column:parent_id;index:idx_comments_article_parent,priority:2" json:"parent_id"`
	AuthorID  string    `gorm:"column:author_id;type:varchar(64);not null;index" json:"author_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	LikeCount int64     `gorm:"column:like_count;not null;default:0" json:"like_count"`
	IsTop     bool      `gorm:"column:is_top;not null;default:false" json:"is_top"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// CreateCommentRequest is the payload for posting a comment or reply
type CreateCommentRequest struct {
	ArticleID uint64  `json:"article_id" validate:"required"`
	ParentID  *uint64 `json:"parent_id"`
	Content   string  `json:"content" validate:"required,max=2000"`
}

// CommentResponse is a comment with per-viewer decoration
type CommentResponse struct {
	Comment
	ReplyCount int64 `json:"reply_count"`
	IsLiked    bool  `json:"is_liked"`
}

// CommentPage is one page of top-level comments
type CommentPage struct {
	Items    []CommentResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Next     *int              `json:"next"`
	Previous *int              `json:"previous"`
}
