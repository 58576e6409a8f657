package usecase

import (
	"context"

	"movie-rating/internal/data/repository"
	"movie-rating/internal/tmdb"
	"movie-rating/pkg/utils"

	"go.uber.org/zap"
)

// MovieCatalog is the external movie metadata collaborator. *tmdb.Client
// satisfies it; tests substitute fakes.
type MovieCatalog interface {
	Search(ctx context.Context, query string) (*tmdb.SearchResult, error)
	GetMovie(ctx context.Context, movieID int64) (*tmdb.Movie, error)
}

type Service struct {
	Auth   AuthService
	Movie  MovieService
	Review ReviewService
}

func NewService(repo *repository.Repository, catalog MovieCatalog, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(repo, config, log),
		Movie:  NewMovieService(catalog, log),
		Review: NewReviewService(repo, catalog, log),
	}
}
