package repository

import (
	"context"
	"fmt"
	"time"

	"movie-rating/internal/data/entity"
	"movie-rating/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	// Create assigns a new id, stamps the creation time and stores the review.
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id int64) (*entity.Review, error)
	FindByUserAndMovie(ctx context.Context, userID, movieID int64) (*entity.Review, error)
	FindByUserID(ctx context.Context, userID int64) ([]*entity.Review, error)
	// UpdateRating merges the new rating into the review located by primary
	// id, preserving its created_at. Returns ErrNotFound when absent.
	UpdateRating(ctx context.Context, id int64, rating int) (*entity.Review, error)
	// Upsert creates a review for the (user, movie) pair or updates the
	// rating of the existing one, in a single atomic operation. The second
	// return value reports whether a new review was created.
	Upsert(ctx context.Context, userID, movieID int64, rating int) (*entity.Review, bool, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO reviews (user_id, movie_id, rating, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.CreatedAt,
	).Scan(&review.ID)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("user_id", review.UserID),
			zap.Int64("movie_id", review.MovieID),
		)
		return fmt.Errorf("create review for movie %d by user %d: %w",
			review.MovieID, review.UserID, err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, created_at
		FROM reviews
		WHERE id = $1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return nil, fmt.Errorf("find review by ID %d: %w", id, err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByUserAndMovie(ctx context.Context, userID, movieID int64) (*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, created_at
		FROM reviews
		WHERE user_id = $1 AND movie_id = $2
		LIMIT 1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, userID, movieID).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and movie",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("find review by user %d and movie %d: %w",
			userID, movieID, err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID int64) ([]*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, created_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find reviews by user ID",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find reviews by user ID %d: %w", userID, err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.MovieID,
			&review.Rating,
			&review.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}

func (r *reviewRepository) UpdateRating(ctx context.Context, id int64, rating int) (*entity.Review, error) {
	query := `
		UPDATE reviews
		SET rating = $2
		WHERE id = $1
		RETURNING id, user_id, movie_id, rating, created_at
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, id, rating).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return nil, fmt.Errorf("update review %d: %w", id, err)
	}

	return &review, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, userID, movieID int64, rating int) (*entity.Review, bool, error) {
	// Single statement keyed on the (user_id, movie_id) unique constraint so
	// concurrent submissions for the same pair cannot both insert.
	query := `
		INSERT INTO reviews (user_id, movie_id, rating, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET rating = EXCLUDED.rating
		RETURNING id, user_id, movie_id, rating, created_at, (xmax = 0) AS inserted
	`

	var review entity.Review
	var inserted bool
	err := r.db.QueryRow(ctx, query, userID, movieID, rating, time.Now()).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.CreatedAt,
		&inserted,
	)

	if err != nil {
		r.log.Error("Failed to upsert review",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("movie_id", movieID),
		)
		return nil, false, fmt.Errorf("upsert review for movie %d by user %d: %w",
			movieID, userID, err)
	}

	return &review, inserted, nil
}
