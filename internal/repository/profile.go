package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"devnovate/internal/models"
)

type ProfileRepo interface {
	GetAll(ctx context.Context) ([]*models.Profile, error)
}

type profileRepo struct{ db *pgxpool.Pool }

func NewProfileRepo(db *pgxpool.Pool) ProfileRepo { return &profileRepo{db: db} }

func (r *profileRepo) GetAll(ctx context.Context) ([]*models.Profile, error) {
	const q = `SELECT user_id, name, email, avatar_url FROM profiles`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.UserID, &p.Name, &p.Email, &p.AvatarURL); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
