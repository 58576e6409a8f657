package wire

import (
	"movie-rating/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	// Catalog proxy routes are public
	r.Get("/api/movies/search", movieHandler.Search)
	r.Get("/api/movies/{id}", movieHandler.GetByID)
}
