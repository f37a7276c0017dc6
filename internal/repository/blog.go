package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devnovate/internal/models"
)

type BlogRepo interface {
	GetAll(ctx context.Context) ([]*models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	Insert(ctx context.Context, b *models.Blog) (*models.Blog, error)
	SetPublished(ctx context.Context, id string) error
	SetRejected(ctx context.Context, id, reason string) error
	Delete(ctx context.Context, id string) error
	GenerateSlug(ctx context.Context, title, authorID string) (string, error)
}

type blogRepo struct{ db *pgxpool.Pool }

func NewBlogRepo(db *pgxpool.Pool) BlogRepo { return &blogRepo{db: db} }

const blogColumns = `
	id, title, content_html, content_markdown, status,
	created_at, published_at, author_id,
	views_count, likes_count, comments_count,
	tags, cover_image_url, slug, rejection_reason
`

func scanBlog(row pgx.Row) (*models.Blog, error) {
	var b models.Blog
	var tagsRaw []byte
	if err := row.Scan(
		&b.ID, &b.Title, &b.ContentHTML, &b.ContentMarkdown, &b.Status,
		&b.CreatedAt, &b.PublishedAt, &b.AuthorID,
		&b.ViewsCount, &b.LikesCount, &b.CommentsCount,
		&tagsRaw, &b.CoverImageURL, &b.Slug, &b.RejectionReason,
	); err != nil {
		return nil, err
	}
	_ = json.Unmarshal(tagsRaw, &b.Tags)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

func (r *blogRepo) GetAll(ctx context.Context) ([]*models.Blog, error) {
	const q = `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *blogRepo) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	const q = `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`
	return scanBlog(r.db.QueryRow(ctx, q, id))
}

func (r *blogRepo) Insert(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	tagsJSON, _ := json.Marshal(b.Tags)

	const q = `
		INSERT INTO blogs (title, content_html, content_markdown, status,
		                   published_at, author_id, tags, cover_image_url, slug)
		VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8,$9)
		RETURNING ` + blogColumns

	return scanBlog(r.db.QueryRow(ctx, q,
		b.Title,           // string
		b.ContentHTML,     // string
		b.ContentMarkdown, // *string (nullable)
		b.Status,          // string
		b.PublishedAt,     // *time.Time (nullable)
		b.AuthorID,        // uuid
		tagsJSON,          // jsonb
		b.CoverImageURL,   // *string (nullable)
		b.Slug,            // string
	))
}

// SetPublished — действие approve: статус published, отметка времени,
// причина отклонения очищается.
func (r *blogRepo) SetPublished(ctx context.Context, id string) error {
	const q = `
		UPDATE blogs
		SET status = 'published',
		    published_at = NOW(),
		    rejection_reason = NULL
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

// SetRejected — действия reject и ban: различаются только текстом причины.
// Несуществующий id — не ошибка, просто ноль затронутых строк.
func (r *blogRepo) SetRejected(ctx context.Context, id, reason string) error {
	const q = `
		UPDATE blogs
		SET status = 'rejected',
		    rejection_reason = $2
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, q, id, reason)
	return err
}

func (r *blogRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM blogs WHERE id=$1", id)
	return err
}

// GenerateSlug вызывает серверную функцию generate_unique_slug.
func (r *blogRepo) GenerateSlug(ctx context.Context, title, authorID string) (string, error) {
	var slug string
	err := r.db.QueryRow(ctx, "SELECT generate_unique_slug($1, $2)", title, authorID).Scan(&slug)
	return slug, err
}
