package usecase

import (
	"context"
	"fmt"
	"math"

	"movie-rating/internal/data/repository"
	"movie-rating/internal/dto/request"
	"movie-rating/internal/dto/response"
	"movie-rating/pkg/utils"

	"go.uber.org/zap"
)

type ReviewService interface {
	// RateMovie applies the upsert protocol: an existing review for the
	// (caller, movie) pair gets its rating replaced in place, otherwise a
	// new review is created. The bool reports creation.
	RateMovie(ctx context.Context, userID int64, req *request.RateMovieRequest) (*response.ReviewResponse, bool, error)
	GetUserReviews(ctx context.Context, userID int64) ([]response.ReviewResponse, error)
	// GetMovieReview returns the caller's review for one movie, nil when the
	// movie has not been rated.
	GetMovieReview(ctx context.Context, userID, movieID int64) (*response.ReviewResponse, error)
	// GetProfile joins the caller's reviews with catalog metadata and
	// derives the average-rating summary.
	GetProfile(ctx context.Context, userID int64) (*response.ProfileResponse, error)
}

type reviewService struct {
	repo    *repository.Repository
	catalog MovieCatalog
	log     *zap.Logger
}

func NewReviewService(repo *repository.Repository, catalog MovieCatalog, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:    repo,
		catalog: catalog,
		log:     log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) RateMovie(ctx context.Context, userID int64, req *request.RateMovieRequest) (*response.ReviewResponse, bool, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Rate movie validation failed", zap.Any("errors", errs))
		return nil, false, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// One atomic store call; the lookup-then-act sequence lives inside the
	// store so concurrent submissions cannot create a duplicate review.
	review, created, err := s.repo.Review.Upsert(ctx, userID, req.MovieID, req.Rating)
	if err != nil {
		s.log.Error("Failed to upsert review",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("movie_id", req.MovieID),
		)
		return nil, false, fmt.Errorf("rate movie %d: %w", req.MovieID, err)
	}

	s.log.Info("Review upserted",
		zap.Int64("review_id", review.ID),
		zap.Int64("user_id", userID),
		zap.Int64("movie_id", req.MovieID),
		zap.Int("rating", req.Rating),
		zap.Bool("created", created),
	)

	resp := response.ReviewToResponse(review)
	return &resp, created, nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID int64) ([]response.ReviewResponse, error) {
	reviews, err := s.repo.Review.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get user reviews",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("get user reviews: %w", err)
	}

	return response.ReviewsToResponse(reviews), nil
}

func (s *reviewService) GetMovieReview(ctx context.Context, userID, movieID int64) (*response.ReviewResponse, error) {
	review, err := s.repo.Review.FindByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		s.log.Error("Failed to get movie review",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("get movie review: %w", err)
	}

	if review == nil {
		return nil, nil
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetProfile(ctx context.Context, userID int64) (*response.ProfileResponse, error) {
	reviews, err := s.repo.Review.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get reviews for profile",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("get reviews for profile: %w", err)
	}

	// All-or-nothing: a single failed metadata fetch fails the whole view.
	movies := make([]response.RatedMovie, 0, len(reviews))
	ratingSum := 0
	for _, review := range reviews {
		movie, err := s.catalog.GetMovie(ctx, review.MovieID)
		if err != nil {
			s.log.Error("Failed to fetch movie metadata for profile",
				zap.Error(err),
				zap.Int64("user_id", userID),
				zap.Int64("movie_id", review.MovieID),
			)
			return nil, fmt.Errorf("fetch metadata for movie %d: %w", review.MovieID, err)
		}

		movies = append(movies, response.RatedMovie{
			Movie:    *movie,
			Rating:   review.Rating,
			ReviewID: review.ID,
		})
		ratingSum += review.Rating
	}

	profile := &response.ProfileResponse{Movies: movies}

	// No summary at all for an empty list, rather than an aggregate of zero.
	if len(reviews) > 0 {
		average := float64(ratingSum) / float64(len(reviews))
		profile.Summary = &response.RatingSummary{
			AverageRating: math.Round(average*10) / 10,
			MovieCount:    len(reviews),
		}
	}

	s.log.Info("Profile assembled",
		zap.Int64("user_id", userID),
		zap.Int("movie_count", len(movies)),
	)

	return profile, nil
}
