package postgres

import "time"

type seasonTableModel struct {
	ID           string     `db:"id"`
	Year         int        `db:"year"`
	TotalRaces   int        `db:"total_races"`
	CurrentRound int        `db:"current_round"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type seasonInsertModel struct {
	ID           string `db:"id"`
	Year         int    `db:"year"`
	TotalRaces   int    `db:"total_races"`
	CurrentRound int    `db:"current_round"`
}
