package adaptor

import (
	"errors"
	"net/http"
	"strconv"

	"movie-rating/internal/tmdb"
	"movie-rating/internal/usecase"
	"movie-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// Search handles GET /api/movies/search?q= (public)
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		utils.ResponseBadRequest(w, "Query parameter 'q' is required", nil)
		return
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, err, "search movies")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetByID handles GET /api/movies/{id} (public)
func (h *MovieHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ResponseBadRequest(w, "Movie ID must be an integer", nil)
		return
	}

	movie, err := h.service.GetByID(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

// handleServiceError maps catalog failures, passing the upstream status
// through untranslated.
func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var upstream *tmdb.UpstreamError

	switch {
	case errors.Is(err, tmdb.ErrEmptyQuery):
		h.log.Warn(operation+" failed - empty query", zap.Error(err))
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
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
