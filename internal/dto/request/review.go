package request

type RateMovieRequest struct {
	MovieID int64 `json:"movieId" validate:"required,gt=0"`
	Rating  int   `json:"rating" validate:"required,min=1,max=5"`
}
