package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"movie-rating/internal/data/entity"

	"go.uber.org/zap"
)

type reviewKey struct {
	userID  int64
	movieID int64
}

// memoryStore holds all volatile state behind one mutex. Go serves requests
// on concurrent goroutines, so every mutation and every composite read runs
// inside a critical section; the upsert in particular is a single one, which
// keeps the at-most-one-review-per-(user,movie) invariant safe against
// concurrent submissions.
type memoryStore struct {
	mu sync.RWMutex

	users       map[int64]*entity.User
	usersByName map[string]int64

	reviews      map[int64]*entity.Review
	reviewByPair map[reviewKey]int64

	sessions map[string]*entity.Session

	nextUserID    int64
	nextReviewID  int64
	nextSessionID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[int64]*entity.User),
		usersByName:   make(map[string]int64),
		reviews:       make(map[int64]*entity.Review),
		reviewByPair:  make(map[reviewKey]int64),
		sessions:      make(map[string]*entity.Session),
		nextUserID:    1,
		nextReviewID:  1,
		nextSessionID: 1,
	}
}

// ==================== USER ====================

type memoryUserRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByName[user.Username]; taken {
		return ErrUsernameTaken
	}

	user.ID = s.nextUserID
	s.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stored := *user
	s.users[user.ID] = &stored
	s.usersByName[user.Username] = user.ID

	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}

	found := *user
	return &found, nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[username]
	if !ok {
		return nil, nil
	}

	found := *s.users[id]
	return &found, nil
}

// ==================== REVIEW ====================

type memoryReviewRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memoryReviewRepository) Create(_ context.Context, review *entity.Review) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createLocked(review)
	return nil
}

// createLocked assigns id and creation time and stores the review together
// with its (user, movie) index entry. Caller holds the write lock.
func (s *memoryStore) createLocked(review *entity.Review) {
	review.ID = s.nextReviewID
	s.nextReviewID++
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	stored := *review
	s.reviews[review.ID] = &stored
	s.reviewByPair[reviewKey{userID: review.UserID, movieID: review.MovieID}] = review.ID
}

func (r *memoryReviewRepository) FindByID(_ context.Context, id int64) (*entity.Review, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	review, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}

	found := *review
	return &found, nil
}

func (r *memoryReviewRepository) FindByUserAndMovie(_ context.Context, userID, movieID int64) (*entity.Review, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.reviewByPair[reviewKey{userID: userID, movieID: movieID}]
	if !ok {
		return nil, nil
	}

	found := *s.reviews[id]
	return &found, nil
}

func (r *memoryReviewRepository) FindByUserID(_ context.Context, userID int64) ([]*entity.Review, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reviews []*entity.Review
	for _, review := range s.reviews {
		if review.UserID == userID {
			found := *review
			reviews = append(reviews, &found)
		}
	}

	// Insertion order; callers must not depend on any ordering.
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })

	return reviews, nil
}

func (r *memoryReviewRepository) UpdateRating(_ context.Context, id int64, rating int) (*entity.Review, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	review, ok := s.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}

	review.Rating = rating

	updated := *review
	return &updated, nil
}

func (r *memoryReviewRepository) Upsert(_ context.Context, userID, movieID int64, rating int) (*entity.Review, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.reviewByPair[reviewKey{userID: userID, movieID: movieID}]; ok {
		review := s.reviews[id]
		review.Rating = rating

		updated := *review
		return &updated, false, nil
	}

	review := &entity.Review{
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
	}
	s.createLocked(review)

	return review, true, nil
}

// ==================== SESSION ====================

type memorySessionRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memorySessionRepository) Create(_ context.Context, session *entity.Session) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	session.ID = s.nextSessionID
	s.nextSessionID++
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	stored := *session
	s.sessions[session.Token.String()] = &stored

	return nil
}

func (r *memorySessionRepository) FindValidToken(_ context.Context, token string) (*entity.Session, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok || session.RevokedAt != nil || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}

	found := *session
	return &found, nil
}

func (r *memorySessionRepository) Revoke(_ context.Context, token string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return ErrNotFound
	}

	now := time.Now()
	session.RevokedAt = &now

	return nil
}
