package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"movie-rating/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	return NewMemoryRepository(zap.NewNop())
}

func TestUserCreateAssignsMonotonicIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &entity.User{Username: "alice", PasswordHash: "hash-a"}
	second := &entity.User{Username: "bob", PasswordHash: "hash-b"}

	if err := repo.User.Create(ctx, first); err != nil {
		t.Fatalf("create first user: %v", err)
	}
	if err := repo.User.Create(ctx, second); err != nil {
		t.Fatalf("create second user: %v", err)
	}

	if first.ID != 1 {
		t.Errorf("first user id = %d, want 1", first.ID)
	}
	if second.ID != 2 {
		t.Errorf("second user id = %d, want 2", second.ID)
	}
}

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.User.Create(ctx, &entity.User{Username: "alice", PasswordHash: "h1"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	err := repo.User.Create(ctx, &entity.User{Username: "alice", PasswordHash: "h2"})
	if err != ErrUsernameTaken {
		t.Fatalf("duplicate username error = %v, want ErrUsernameTaken", err)
	}

	// The failed create must leave no trace
	user, err := repo.User.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if user.PasswordHash != "h1" {
		t.Errorf("stored user hash = %q, want original %q", user.PasswordHash, "h1")
	}
}

func TestUserFindByIDAndUsername(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := &entity.User{Username: "carol", PasswordHash: "hash"}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	byID, err := repo.User.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID == nil || byID.Username != "carol" {
		t.Fatalf("find by id = %+v, want carol", byID)
	}

	missing, err := repo.User.FindByID(ctx, 999)
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Errorf("find missing = %+v, want nil", missing)
	}

	byName, err := repo.User.FindByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byName != nil {
		t.Errorf("find unknown username = %+v, want nil", byName)
	}
}

func TestReviewUpsertCreatesThenUpdates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, wasCreated, err := repo.Review.Upsert(ctx, 1, 42, 5)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !wasCreated {
		t.Fatal("first upsert reported update, want creation")
	}
	if created.ID != 1 {
		t.Errorf("created review id = %d, want 1", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created review has zero CreatedAt")
	}

	updated, wasCreated, err := repo.Review.Upsert(ctx, 1, 42, 2)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if wasCreated {
		t.Fatal("second upsert reported creation, want update")
	}
	if updated.ID != created.ID {
		t.Errorf("updated review id = %d, want preserved %d", updated.ID, created.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("updated CreatedAt = %v, want preserved %v", updated.CreatedAt, created.CreatedAt)
	}
	if updated.Rating != 2 {
		t.Errorf("updated rating = %d, want 2", updated.Rating)
	}

	// Exactly one review for the pair
	reviews, err := repo.Review.FindByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("find by user: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("reviews for pair = %d, want 1", len(reviews))
	}
	if reviews[0].Rating != 2 {
		t.Errorf("stored rating = %d, want 2", reviews[0].Rating)
	}
}

func TestReviewUpsertConcurrentSamePair(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const submissions = 50
	var wg sync.WaitGroup
	wg.Add(submissions)
	for i := 0; i < submissions; i++ {
		rating := i%5 + 1
		go func() {
			defer wg.Done()
			if _, _, err := repo.Review.Upsert(ctx, 1, 42, rating); err != nil {
				t.Errorf("concurrent upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	reviews, err := repo.Review.FindByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("find by user: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("stored reviews for pair = %d, want 1", len(reviews))
	}
	if reviews[0].MovieID != 42 {
		t.Errorf("movie id = %d, want 42", reviews[0].MovieID)
	}
	if reviews[0].Rating < 1 || reviews[0].Rating > 5 {
		t.Errorf("rating = %d, want one of the submitted values", reviews[0].Rating)
	}
}

func TestReviewUpsertDistinguishesPairs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	pairs := []struct {
		userID  int64
		movieID int64
	}{
		{1, 42},
		{1, 43},
		{2, 42},
	}

	for _, pair := range pairs {
		if _, _, err := repo.Review.Upsert(ctx, pair.userID, pair.movieID, 3); err != nil {
			t.Fatalf("upsert (%d,%d): %v", pair.userID, pair.movieID, err)
		}
	}

	userOne, err := repo.Review.FindByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("find user 1 reviews: %v", err)
	}
	if len(userOne) != 2 {
		t.Errorf("user 1 review count = %d, want 2", len(userOne))
	}
	for _, review := range userOne {
		if review.UserID != 1 {
			t.Errorf("user 1 list contains review owned by %d", review.UserID)
		}
	}

	userTwo, err := repo.Review.FindByUserID(ctx, 2)
	if err != nil {
		t.Fatalf("find user 2 reviews: %v", err)
	}
	if len(userTwo) != 1 {
		t.Errorf("user 2 review count = %d, want 1", len(userTwo))
	}
}

func TestReviewFindByUserAndMovie(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, _, err := repo.Review.Upsert(ctx, 7, 100, 4); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	review, err := repo.Review.FindByUserAndMovie(ctx, 7, 100)
	if err != nil {
		t.Fatalf("find by pair: %v", err)
	}
	if review == nil || review.Rating != 4 {
		t.Fatalf("find by pair = %+v, want rating 4", review)
	}

	missing, err := repo.Review.FindByUserAndMovie(ctx, 7, 101)
	if err != nil {
		t.Fatalf("find missing pair: %v", err)
	}
	if missing != nil {
		t.Errorf("find missing pair = %+v, want nil", missing)
	}
}

func TestReviewUpdateRating(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	review := &entity.Review{UserID: 1, MovieID: 5, Rating: 3}
	if err := repo.Review.Create(ctx, review); err != nil {
		t.Fatalf("create review: %v", err)
	}

	updated, err := repo.Review.UpdateRating(ctx, review.ID, 5)
	if err != nil {
		t.Fatalf("update rating: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("updated rating = %d, want 5", updated.Rating)
	}
	if updated.ID != review.ID || !updated.CreatedAt.Equal(review.CreatedAt) {
		t.Error("update changed identity fields")
	}

	if _, err := repo.Review.UpdateRating(ctx, 999, 1); err != ErrNotFound {
		t.Errorf("update missing review error = %v, want ErrNotFound", err)
	}
}

func TestReviewReturnsCopies(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, _, err := repo.Review.Upsert(ctx, 1, 42, 3); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	first, err := repo.Review.FindByUserAndMovie(ctx, 1, 42)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	first.Rating = 99

	second, err := repo.Review.FindByUserAndMovie(ctx, 1, 42)
	if err != nil {
		t.Fatalf("refind: %v", err)
	}
	if second.Rating != 3 {
		t.Errorf("caller mutation leaked into store: rating = %d, want 3", second.Rating)
	}
}

func TestSessionLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	token := uuid.New()
	session := &entity.Session{
		UserID:    1,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := repo.Session.Create(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	found, err := repo.Session.FindValidToken(ctx, token.String())
	if err != nil {
		t.Fatalf("find valid token: %v", err)
	}
	if found == nil || found.UserID != 1 {
		t.Fatalf("find valid token = %+v, want user 1", found)
	}

	if err := repo.Session.Revoke(ctx, token.String()); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	revoked, err := repo.Session.FindValidToken(ctx, token.String())
	if err != nil {
		t.Fatalf("find after revoke: %v", err)
	}
	if revoked != nil {
		t.Error("revoked session still validates")
	}

	if err := repo.Session.Revoke(ctx, token.String()); err != ErrNotFound {
		t.Errorf("double revoke error = %v, want ErrNotFound", err)
	}
}

func TestSessionExpiryRejected(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	token := uuid.New()
	session := &entity.Session{
		UserID:    1,
		Token:     token,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := repo.Session.Create(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	found, err := repo.Session.FindValidToken(ctx, token.String())
	if err != nil {
		t.Fatalf("find expired token: %v", err)
	}
	if found != nil {
		t.Error("expired session still validates")
	}
}
