package handlerUtil

import (
	"SmileApp/internal/api/post"
	"SmileApp/internal/api/smile"
	"SmileApp/pkg/log"
	"SmileApp/pkg/response"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// errorCodes gives clients a stable identifier for the errors they are
// expected to branch on.
var errorCodes = []struct {
	err  error
	code string
}{
	{posts.ErrSmileBelowThreshold, "SMILE_TOO_WEAK"},
	{posts.ErrPostNotFound, "POST_NOT_FOUND"},
	{posts.ErrImageRequired, "IMAGE_REQUIRED"},
	{posts.ErrInvalidFileType, "INVALID_FILE_TYPE"},
	{posts.ErrFileTooLarge, "FILE_TOO_LARGE"},
	{posts.ErrInvalidImage, "INVALID_IMAGE"},
	{posts.ErrInvalidSmileScore, "INVALID_SMILE_SCORE"},
	{posts.ErrFailedToUpload, "UPLOAD_FAILED"},
	{smiles.ErrImageRequired, "IMAGE_REQUIRED"},
	{smiles.ErrInvalidImage, "INVALID_IMAGE"},
	{smiles.ErrInvalidFileType, "INVALID_FILE_TYPE"},
	{smiles.ErrFileTooLarge, "FILE_TOO_LARGE"},
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code

		body := ErrorResponse{Error: respErr.Error(), Code: codeFor(err)}
		if respErr.Code >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error("Operation failed with error response")
		} else {
			h.logger.WithFields(fields).Warn("Operation failed with error response")
		}
		return c.Status(respErr.Code).JSON(body)
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		Details: "trace_id: " + traceID,
	})
}

func codeFor(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ""
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
