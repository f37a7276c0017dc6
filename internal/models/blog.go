package models

import "time"

// Статусы блога. Модерация переводит submitted/draft в published или rejected.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

type Blog struct {
	ID              string     `db:"id"               json:"id"`
	Title           string     `db:"title"            json:"title"`
	ContentHTML     string     `db:"content_html"     json:"content_html"`
	ContentMarkdown *string    `db:"content_markdown" json:"content_markdown,omitempty"`
	Status          string     `db:"status"           json:"status"`
	CreatedAt       time.Time  `db:"created_at"       json:"created_at"`
	PublishedAt     *time.Time `db:"published_at"     json:"published_at,omitempty"`
	AuthorID        string     `db:"author_id"        json:"author_id"`
	ViewsCount      int        `db:"views_count"      json:"views_count"`
	LikesCount      int        `db:"likes_count"      json:"likes_count"`
	CommentsCount   int        `db:"comments_count"   json:"comments_count"`
	Tags            []string   `db:"-"                json:"tags"`
	CoverImageURL   *string    `db:"cover_image_url"  json:"cover_image_url,omitempty"`
	Slug            string     `db:"slug"             json:"slug"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
}

// swagger:model CreateBlogRequest
type CreateBlogRequest struct {
	Title           string   `json:"title"            example:"My Blog Post"`
	ContentHTML     string   `json:"content_html"     example:"<p>This is the content</p>"`
	ContentMarkdown string   `json:"content_markdown" example:"This is the content"`
	AuthorID        string   `json:"author_id"        example:"5f1f2d9b-0d55-4c2a-9c5a-1f4f6b1a2c3d"`
	Tags            []string `json:"tags"             example:"tech,ai"`
	CoverImageURL   string   `json:"cover_image_url"  example:"https://example.com/image.jpg"`
	Status          string   `json:"status"           example:"published"`
}
