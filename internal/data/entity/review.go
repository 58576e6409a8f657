package entity

import (
	"time"
)

type Review struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	MovieID   int64     `db:"movie_id"` // external catalog identifier
	Rating    int       `db:"rating"`   // 1-5
	CreatedAt time.Time `db:"created_at"`
}
