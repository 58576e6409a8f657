package repository

import (
	"errors"

	"movie-rating/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned by UserRepository.Create when the username
	// already exists. The check and the insert happen atomically inside the
	// store.
	ErrUsernameTaken = errors.New("username already taken")
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Review  ReviewRepository
}

// NewPostgresRepository wires the pgx-backed implementations.
func NewPostgresRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Review:  NewReviewRepository(db, log),
	}
}

// NewMemoryRepository wires the volatile in-process implementations. All
// state lives in one process-lifetime store; ids restart at 1 on every boot.
func NewMemoryRepository(log *zap.Logger) *Repository {
	store := newMemoryStore()
	return &Repository{
		User:    &memoryUserRepository{store: store, log: log.With(zap.String("repository", "user"))},
		Session: &memorySessionRepository{store: store, log: log.With(zap.String("repository", "session"))},
		Review:  &memoryReviewRepository{store: store, log: log.With(zap.String("repository", "review"))},
	}
}
