package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chaos-io/transpalentor/api"
)

func abort(c *gin.Context, status int, code, detail, sessionID string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{
		Detail:    detail,
		ErrorCode: code,
		SessionID: sessionID,
	})
}

func sessionNotFound(c *gin.Context, sessionID string) {
	abort(c, http.StatusNotFound, api.CodeSessionNotFound, "Session not found", sessionID)
}

func fileTooLarge(c *gin.Context, limit int64) {
	abort(c, http.StatusRequestEntityTooLarge, api.CodeFileTooLarge,
		fmt.Sprintf("File size exceeds maximum limit of %d MB", limit>>20), "")
}

func unsupportedFormat(c *gin.Context) {
	abort(c, http.StatusUnprocessableEntity, api.CodeUnsupportedFormat,
		"Unsupported image format (supported: PNG, JPEG, BMP)", "")
}

func colorNotSpecified(c *gin.Context) {
	abort(c, http.StatusBadRequest, api.CodeColorNotSpecified, "Target color not specified", "")
}

func validationError(c *gin.Context, err error) {
	_ = c.Error(err)
	abort(c, http.StatusUnprocessableEntity, api.CodeValidation, "Validation error: "+err.Error(), "")
}

func processingError(c *gin.Context, err error) {
	_ = c.Error(err)
	abort(c, http.StatusInternalServerError, api.CodeProcessing,
		"An unexpected error occurred during image processing", "")
}
