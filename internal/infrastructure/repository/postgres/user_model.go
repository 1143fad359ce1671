package postgres

import "time"

type userTableModel struct {
	ID        string     `db:"id"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	AvatarURL string     `db:"avatar_url"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type userInsertModel struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	AvatarURL string `db:"avatar_url"`
}
