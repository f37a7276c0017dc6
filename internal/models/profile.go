package models

// Profile — автор блога. Таблица profiles здесь только читается.
type Profile struct {
	UserID    string  `db:"user_id"    json:"user_id"`
	Name      string  `db:"name"       json:"name"`
	Email     string  `db:"email"      json:"email"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url,omitempty"`
}
