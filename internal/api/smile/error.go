package smiles

import (
	"SmileApp/pkg/response"
	"net/http"
)

var (
	ErrImageRequired   = response.NewError(http.StatusBadRequest, "image is required")
	ErrInvalidImage    = response.NewError(http.StatusBadRequest, "image could not be decoded")
	ErrInvalidFileType = response.NewError(http.StatusBadRequest, "invalid file type")
	ErrFileTooLarge    = response.NewError(http.StatusRequestEntityTooLarge, "file too large")
)
