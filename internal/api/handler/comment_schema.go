package handler

type createCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
}

type updateCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
}
