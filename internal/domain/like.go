package domain

import "time"

// LikeTarget identifies which kind of subject a like refers to
type LikeTarget string

const (
	LikeTargetArticle LikeTarget = "article"
	LikeTargetComment LikeTarget = "comment"
)

// ArticleLike represents the article_likes table
type ArticleLike struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ArticleID uint64    `gorm:"column:article_id;not null;uniqueIndex:uk_article_likes_article_user,priority:1" json:"article_id"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uk_article_likes_article_user,priority:2;index" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ArticleLike) TableName() string { return "article_likes" }

// CommentLike represents the comment_likes table
type CommentLike struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CommentID uint64    `gorm:"column:comment_id;not null;uniqueIndex:uk_comment_likes_comment_user,priority:1" json:"comment_id"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uk_comment_likes_comment_user,priority:2;index" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CommentLike) TableName() string { return "comment_likes" }

// LikeResult is returned by like/unlike actions
type LikeResult struct {
	LikeCount int64 `json:"like_count"`
	Liked     bool  `json:"liked"`
}

// Liker is one entry of a likers list
type Liker struct {
	UserID  string    `json:"user_id"`
	LikedAt time.Time `json:"liked_at"`
}

// LikersResponse is the response DTO for likers list
type LikersResponse struct {
	Likers []Liker `json:"likers"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// CounterDrift is a subject whose like_count disagrees with its ledger rows
type CounterDrift struct {
	SubjectID uint64 `json:"subject_id"`
	Stored    int64  `json:"stored"`
	Actual    int64  `json:"actual"`
}
