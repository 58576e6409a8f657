package response

import (
	"time"

	"movie-rating/internal/data/entity"
	"movie-rating/internal/tmdb"
)

type ReviewResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// RatedMovie is one row of the profile view: catalog metadata merged with
// the caller's review.
type RatedMovie struct {
	tmdb.Movie
	Rating   int   `json:"rating"`
	ReviewID int64 `json:"review_id"`
}

// RatingSummary is absent (nil) when the user has rated nothing.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	MovieCount    int     `json:"movie_count"`
}

type ProfileResponse struct {
	Movies  []RatedMovie   `json:"movies"`
	Summary *RatingSummary `json:"summary,omitempty"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		MovieID:   review.MovieID,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		out[i] = ReviewToResponse(review)
	}
	return out
}
