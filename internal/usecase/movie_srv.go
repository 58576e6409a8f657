package usecase

import (
	"context"
	"fmt"

	"movie-rating/internal/tmdb"

	"go.uber.org/zap"
)

type MovieService interface {
	Search(ctx context.Context, query string) (*tmdb.SearchResult, error)
	GetByID(ctx context.Context, movieID int64) (*tmdb.Movie, error)
}

// movieService is a stateless pass-through to the external catalog.
type movieService struct {
	catalog MovieCatalog
	log     *zap.Logger
}

func NewMovieService(catalog MovieCatalog, log *zap.Logger) MovieService {
	return &movieService{
		catalog: catalog,
		log:     log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) Search(ctx context.Context, query string) (*tmdb.SearchResult, error) {
	result, err := s.catalog.Search(ctx, query)
	if err != nil {
		s.log.Warn("Movie search failed",
			zap.Error(err),
			zap.String("query", query),
		)
		return nil, fmt.Errorf("search movies: %w", err)
	}

	s.log.Debug("Movie search completed",
		zap.String("query", query),
		zap.Int("results", len(result.Results)),
	)

	return result, nil
}

func (s *movieService) GetByID(ctx context.Context, movieID int64) (*tmdb.Movie, error) {
	movie, err := s.catalog.GetMovie(ctx, movieID)
	if err != nil {
		s.log.Warn("Movie detail fetch failed",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("get movie by ID: %w", err)
	}

	return movie, nil
}
