package wire

import (
	"movie-rating/internal/adaptor"
	"movie-rating/internal/data/repository"
	"movie-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// All review routes require authentication
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/reviews - rate a movie (create-or-update by identity)
		r.Post("/api/reviews", reviewHandler.RateMovie)

		// GET /api/reviews/user - caller's own reviews
		r.Get("/api/reviews/user", reviewHandler.GetUserReviews)

		// GET /api/reviews/movie/{movieId} - caller's review for one movie
		r.Get("/api/reviews/movie/{movieId}", reviewHandler.GetMovieReview)

		// GET /api/profile - reviews joined with catalog metadata
		r.Get("/api/profile", reviewHandler.GetProfile)
	})
}
