package posts

import (
	"SmileApp/pkg/response"
	"net/http"
)

var (
	ErrPostNotFound        = response.NewError(http.StatusNotFound, "post not found")
	ErrCreatePost          = response.NewError(http.StatusInternalServerError, "failed to create post")
	ErrGetFeed             = response.NewError(http.StatusInternalServerError, "failed to load feed")
	ErrImageRequired       = response.NewError(http.StatusBadRequest, "image is required")
	ErrInvalidFileType     = response.NewError(http.StatusBadRequest, "invalid file type")
	ErrFileTooLarge        = response.NewError(http.StatusRequestEntityTooLarge, "file too large")
	ErrInvalidImage        = response.NewError(http.StatusBadRequest, "image could not be decoded")
	ErrFailedToUpload      = response.NewError(http.StatusInternalServerError, "failed to upload file")
	ErrInvalidSmileScore   = response.NewError(http.StatusBadRequest, "smile_score must be an integer between 0 and 100")
	ErrSmileBelowThreshold = response.NewError(http.StatusUnprocessableEntity, "smile score is below the capture threshold")
)
