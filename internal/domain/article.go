package domain

import (
	"strings"
	"time"
)

// ArticleStatus is the lifecycle state of an article
type ArticleStatus string

const (
	StatusDraft        ArticleStatus = "draft"
	StatusReviewing    ArticleStatus = "reviewing"
	StatusReviewFailed ArticleStatus = "review_failed"
	StatusPublished    ArticleStatus = "published"
)

// Valid reports whether s is one of the four lifecycle states
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReviewing, StatusReviewFailed, StatusPublished:
		return true
	}
	return false
}

// Editable reports whether an owner may still change the article
func (s ArticleStatus) Editable() bool {
	return s == StatusDraft || s == StatusReviewFailed
}

// OwnerRequestable reports whether a non-admin may request this status directly
func (s ArticleStatus) OwnerRequestable() bool {
	return s == StatusDraft || s == StatusReviewing
}

// Article represents the articles table
type Article struct {
	ID            uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title         string        `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Content       string        `gorm:"column:content;type:mediumtext;not null" json:"content"`
	AuthorID      string        `gorm:"column:author_id;type:varchar(64);not null;index" json:"author_id"`
	BuildingID    *uint64       `gorm:"column:building_id;index" json:"building_id"`
	CoverImage    string        `gorm:"column:cover_image;type:varchar(255)" json:"cover_image"`
	ContentImages string        `gorm:"column:content_images;type:text" json:"-"`
	Status        ArticleStatus `gorm:"column:status;type:varchar(20);not null;index:idx_articles_status_created,priority:1" json:"status"`
	ReviewNote    string        `gorm:"column:review_note;type:varchar(500)" json:"review_note"`
	IsFeatured    bool          `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	ViewCount     int64         `gorm:"column:view_count;not null;default:0" json:"view_count"`
	LikeCount     int64         `gorm:"column:like_count;not null;default:0" json:"like_count"`
	Tags          string        `gorm:"column:tags;type:varchar(200)" json:"-"`
	DraftSavedAt  *time.Time    `gorm:"column:draft_saved_at" json:"draft_saved_at"`
	PublishedAt   *time.Time    `gorm:"column:published_at" json:"published_at"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime;index:idx_articles_status_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Article) TableName() string { return "articles" }

// ApplyStatus sets the status together with the timestamp pair it implies
func (a *Article) ApplyStatus(status ArticleStatus, now time.Time) {
	a.Status = status
	if status == StatusPublished {
		a.PublishedAt = &now
		a.DraftSavedAt = nil
		return
	}
	a.DraftSavedAt = &now
	a.PublishedAt = nil
}

// StatusUpdates returns the column updates for entering status at now.
// Used for conditional updates where the row is not loaded into a struct.
func StatusUpdates(status ArticleStatus, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{"status": status}
	if status == StatusPublished {
		updates["published_at"] = now
		updates["draft_saved_at"] = nil
	} else {
		updates["draft_saved_at"] = now
		updates["published_at"] = nil
	}
	return updates
}

// VisibleTo reports whether actor may read the article. Unpublished articles
// are reserved for their owner and admins.
func (a *Article) VisibleTo(actor *Actor) bool {
	return a.Status == StatusPublished || actor.Admin() || actor.Owns(a.AuthorID)
}

// TagList splits the stored comma-joined tags
func (a *Article) TagList() []string {
	return SplitList(a.Tags)
}

// ImageList splits the stored comma-joined content image keys
func (a *Article) ImageList() []string {
	return SplitList(a.ContentImages)
}

// MediaKeys returns every media reference attached to the article
func (a *Article) MediaKeys() []string {
	keys := a.ImageList()
	if a.CoverImage != "" {
		keys = append([]string{a.CoverImage}, keys...)
	}
	return keys
}

// SplitList parses a comma-joined column, dropping blanks
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList normalises and joins a list for a comma-joined column
func JoinList(items []string) string {
	clean := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(strings.ReplaceAll(it, ",", " "))
		if it != "" {
			clean = append(clean, it)
		}
	}
	return strings.Join(clean, ",")
}

// CreateArticleRequest is the payload for creating an article
type CreateArticleRequest struct {
	Title         string        `json:"title" validate:"required,max=200"`
	Content       string        `json:"content" validate:"required"`
	BuildingID    *uint64       `json:"building_id"`
	CoverImage    string        `json:"cover_image" validate:"max=255"`
	ContentImages []string      `json:"content_images" validate:"max=50,dive,max=255"`
	Tags          []string      `json:"tags" validate:"max=20,dive,max=50"`
	Status        ArticleStatus `json:"status"`
	IsFeatured    bool          `json:"is_featured"`
}

// UpdateArticleRequest carries optional field changes; nil means unchanged
type UpdateArticleRequest struct {
	Title         *string        `json:"title" validate:"omitempty,max=200"`
	Content       *string        `json:"content"`
	BuildingID    *uint64        `json:"building_id"`
	CoverImage    *string        `json:"cover_image" validate:"omitempty,max=255"`
	ContentImages *[]string      `json:"content_images" validate:"omitempty,max=50,dive,max=255"`
	Tags          *[]string      `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Status        *ArticleStatus `json:"status"`
	IsFeatured    *bool          `json:"is_featured"`
}

// ReviewDecision is an admin's verdict on a reviewing article
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// ReviewRequest is the payload for an admin review
type ReviewRequest struct {
	Decision ReviewDecision `json:"decision" validate:"required,oneof=approve reject"`
	Note     string         `json:"note" validate:"max=500"`
}

// ArticleResponse is the API representation of an article
type ArticleResponse struct {
	ID            uint64        `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	AuthorID      string        `json:"author_id"`
	BuildingID    *uint64       `json:"building_id"`
	CoverImage    string        `json:"cover_image"`
	ContentImages []string      `json:"content_images"`
	Status        ArticleStatus `json:"status"`
	ReviewNote    string        `json:"review_note,omitempty"`
	IsFeatured    bool          `json:"is_featured"`
	ViewCount     int64         `json:"view_count"`
	LikeCount     int64         `json:"like_count"`
	Tags          []string      `json:"tags"`
	DraftSavedAt  *time.Time    `json:"draft_saved_at"`
	PublishedAt   *time.Time    `json:"published_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ToResponse converts the model to its API representation
func (a *Article) ToResponse() ArticleResponse {
	return ArticleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		AuthorID:      a.AuthorID,
		BuildingID:    a.BuildingID,
		CoverImage:    a.CoverImage,
		ContentImages: a.ImageList(),
		Status:        a.Status,
		ReviewNote:    a.ReviewNote,
		IsFeatured:    a.IsFeatured,
		ViewCount:     a.ViewCount,
		LikeCount:     a.LikeCount,
		Tags:          a.TagList(),
		DraftSavedAt:  a.DraftSavedAt,
		PublishedAt:   a.PublishedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ArticleDetail is the single-article payload with per-viewer state
type ArticleDetail struct {
	ArticleResponse
	ContentHTML string `json:"content_html"`
	IsLiked     bool   `json:"is_liked"`
}
