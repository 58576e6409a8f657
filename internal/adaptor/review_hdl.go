package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"movie-rating/internal/data/repository"
	"movie-rating/internal/dto/request"
	"movie-rating/internal/tmdb"
	"movie-rating/internal/usecase"
	"movie-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// RateMovie handles POST /api/reviews (protected). A first rating for a
// movie answers 201, a re-rating answers 200 with the merged review.
func (h *ReviewHandler) RateMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, created, err := h.service.RateMovie(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "rate movie")
		return
	}

	if created {
		utils.ResponseCreated(w, "Review created", review)
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// GetUserReviews handles GET /api/reviews/user (protected)
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reviews, err := h.service.GetUserReviews(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get user reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetMovieReview handles GET /api/reviews/movie/{movieId} (protected).
// Responds with the caller's review for that movie, or no data when the
// movie has not been rated yet.
func (h *ReviewHandler) GetMovieReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil {
		utils.ResponseBadRequest(w, "Movie ID must be an integer", nil)
		return
	}

	review, err := h.service.GetMovieReview(r.Context(), userID, movieID)
	if err != nil {
		h.handleServiceError(w, err, "get movie review")
		return
	}

	if review == nil {
		utils.ResponseSuccess(w, "success", nil)
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// GetProfile handles GET /api/profile (protected)
func (h *ReviewHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// handleServiceError handles errors for review operations
func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var upstream *tmdb.UpstreamError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, tmdb.ErrUpstreamTimeout):
		h.log.Warn(operation+" failed - upstream timeout", zap.Error(err))
		utils.ResponseUpstream(w, http.StatusGatewayTimeout, err.Error())

	case errors.As(err, &upstream):
		h.log.Warn(operation+" failed - upstream error",
			zap.Error(err),
			zap.Int("upstream_status", upstream.StatusCode))
		utils.ResponseUpstream(w, upstream.StatusCode, "Movie catalog error")

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
