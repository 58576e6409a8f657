package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"movie-rating/internal/data/repository"
	"movie-rating/internal/dto/request"
	"movie-rating/internal/tmdb"

	"go.uber.org/zap"
)

// fakeCatalog serves canned metadata and records calls.
type fakeCatalog struct {
	movies   map[int64]*tmdb.Movie
	failFor  map[int64]error
	getCalls int
}

func (f *fakeCatalog) Search(_ context.Context, query string) (*tmdb.SearchResult, error) {
	return &tmdb.SearchResult{Page: 1}, nil
}

func (f *fakeCatalog) GetMovie(_ context.Context, movieID int64) (*tmdb.Movie, error) {
	f.getCalls++
	if err, ok := f.failFor[movieID]; ok {
		return nil, err
	}
	if movie, ok := f.movies[movieID]; ok {
		return movie, nil
	}
	return nil, fmt.Errorf("unexpected movie id %d", movieID)
}

func newTestReviewService(catalog MovieCatalog) (ReviewService, *repository.Repository) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	return NewReviewService(repo, catalog, zap.NewNop()), repo
}

func TestRateMovieTwiceKeepsOneReview(t *testing.T) {
	svc, repo := newTestReviewService(&fakeCatalog{})
	ctx := context.Background()

	first, created, err := svc.RateMovie(ctx, 1, &request.RateMovieRequest{MovieID: 42, Rating: 5})
	if err != nil {
		t.Fatalf("first submission: %v", err)
	}
	if !created {
		t.Fatal("first submission reported update, want creation")
	}

	second, created, err := svc.RateMovie(ctx, 1, &request.RateMovieRequest{MovieID: 42, Rating: 2})
	if err != nil {
		t.Fatalf("second submission: %v", err)
	}
	if created {
		t.Fatal("second submission reported creation, want update")
	}

	if second.ID != first.ID {
		t.Errorf("second submission id = %d, want first submission's %d", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("second submission CreatedAt = %v, want first submission's %v", second.CreatedAt, first.CreatedAt)
	}
	if second.Rating != 2 {
		t.Errorf("second submission rating = %d, want 2", second.Rating)
	}

	stored, err := repo.Review.FindByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("find stored reviews: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored review count = %d, want exactly 1", len(stored))
	}
}

func TestRateMovieValidation(t *testing.T) {
	tests := []struct {
		name string
		req  request.RateMovieRequest
	}{
		{name: "rating too low", req: request.RateMovieRequest{MovieID: 1, Rating: 0}},
		{name: "rating too high", req: request.RateMovieRequest{MovieID: 1, Rating: 6}},
		{name: "missing movie id", req: request.RateMovieRequest{Rating: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestReviewService(&fakeCatalog{})
			ctx := context.Background()

			_, _, err := svc.RateMovie(ctx, 1, &tt.req)
			if err == nil {
				t.Fatal("invalid payload accepted")
			}

			// Validation failures must not touch the store
			stored, err := repo.Review.FindByUserID(ctx, 1)
			if err != nil {
				t.Fatalf("find stored reviews: %v", err)
			}
			if len(stored) != 0 {
				t.Errorf("store mutated on validation failure: %d reviews", len(stored))
			}
		})
	}
}

func TestGetMovieReviewAbsent(t *testing.T) {
	svc, _ := newTestReviewService(&fakeCatalog{})
	ctx := context.Background()

	review, err := svc.GetMovieReview(ctx, 1, 42)
	if err != nil {
		t.Fatalf("get absent review: %v", err)
	}
	if review != nil {
		t.Errorf("absent review = %+v, want nil", review)
	}
}

func TestGetProfileMergesMetadata(t *testing.T) {
	catalog := &fakeCatalog{movies: map[int64]*tmdb.Movie{
		42: {ID: 42, Title: "X"},
	}}
	svc, _ := newTestReviewService(catalog)
	ctx := context.Background()

	rated, _, err := svc.RateMovie(ctx, 1, &request.RateMovieRequest{MovieID: 42, Rating: 5})
	if err != nil {
		t.Fatalf("rate movie: %v", err)
	}

	profile, err := svc.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}

	if len(profile.Movies) != 1 {
		t.Fatalf("profile movie count = %d, want 1", len(profile.Movies))
	}
	merged := profile.Movies[0]
	if merged.Title != "X" {
		t.Errorf("merged title = %q, want X", merged.Title)
	}
	if merged.Rating != 5 {
		t.Errorf("merged rating = %d, want 5", merged.Rating)
	}
	if merged.ReviewID != rated.ID {
		t.Errorf("merged review id = %d, want %d", merged.ReviewID, rated.ID)
	}
}

func TestGetProfileSummary(t *testing.T) {
	catalog := &fakeCatalog{movies: map[int64]*tmdb.Movie{
		1: {ID: 1, Title: "A"},
		2: {ID: 2, Title: "B"},
		3: {ID: 3, Title: "C"},
	}}
	svc, _ := newTestReviewService(catalog)
	ctx := context.Background()

	for movieID, rating := range map[int64]int{1: 3, 2: 4, 3: 5} {
		if _, _, err := svc.RateMovie(ctx, 1, &request.RateMovieRequest{MovieID: movieID, Rating: rating}); err != nil {
			t.Fatalf("rate movie %d: %v", movieID, err)
		}
	}

	profile, err := svc.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}

	if profile.Summary == nil {
		t.Fatal("summary missing for non-empty review list")
	}
	if profile.Summary.AverageRating != 4.0 {
		t.Errorf("average rating = %v, want 4.0", profile.Summary.AverageRating)
	}
	if profile.Summary.MovieCount != 3 {
		t.Errorf("movie count = %d, want 3", profile.Summary.MovieCount)
	}
}

func TestGetProfileRoundsAverage(t *testing.T) {
	catalog := &fakeCatalog{movies: map[int64]*tmdb.Movie{
		1: {ID: 1},
		2: {ID: 2},
		3: {ID: 3},
	}}
	svc, _ := newTestReviewService(catalog)
	ctx := context.Background()

	// 2+3+5 = 10/3 = 3.333... -> 3.3
	for movieID, rating := range map[int64]int{1: 2, 2: 3, 3: 5} {
		if _, _, err := svc.RateMovie(ctx, 1, &request.RateMovieRequest{MovieID: movieID, Rating: rating}); err != nil {
			t.Fatalf("rate movie %d: %v", movieID, err)
		}
	}

	profile, err := svc.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Summary.AverageRating != 3.3 {
		t.Errorf("average rating = %v, want 3.3", profile.Summary.AverageRating)
	}
}

func TestGetProfileEmptyHasNoSummary(t *testing.T) {
	catalog := &fakeCatalog{}
	svc, _ := newTestReviewService(catalog)

	profile, err := svc.GetProfile(context.Background(), 1)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}

	if profile.Summary != nil {
		t.Errorf("summary for empty list = %+v, want nil", profile.Summary)
	}
	if len(profile.Movies) != 0 {
		t.Errorf("movies for empty list = %d, want 0", len(profile.Movies))
	}
	if catalog.getCalls != 0 {
		t.Errorf("metadata fetches for empty list = %d, want 0", catalog.getCalls)
	}
}

func TestGetProfileFailsFast(t *testing.T) {
	upstreamErr := &tmdb.UpstreamError{StatusCode: 503}
	catalog := &fakeCatalog{
		movies:  map[int64]*tmdb.Movie{1: {ID: 1}},
		failFor: map[int64]error{2: upstreamErr},
	}
	svc, _ := newTestReviewService(catalog)
	ctx := context.Background()

	for movieID := int64(1); movieID <= 2; movieID++ {
		if _, _, err := svc.RateMovie(ctx, 1, &request.RateMovieRequest{MovieID: movieID, Rating: 4}); err != nil {
			t.Fatalf("rate movie %d: %v", movieID, err)
		}
	}

	profile, err := svc.GetProfile(ctx, 1)
	if err == nil {
		t.Fatal("profile succeeded despite metadata failure, want all-or-nothing error")
	}
	if profile != nil {
		t.Errorf("partial profile returned = %+v, want nil", profile)
	}

	var upstream *tmdb.UpstreamError
	if !errors.As(err, &upstream) {
		t.Errorf("error %v does not carry the upstream failure", err)
	}
}
