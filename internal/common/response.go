package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response codes
const (
	CodeOK               = "OK"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidState     = "INVALID_STATE"
	CodeAlreadyExists    = "ALREADY_EXISTS"
	CodeConflict         = "CONFLICT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// APIResponse standard API response structure
type APIResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Code: CodeOK, Message: "success", Data: data})
}

// CreatedResponse returns a 201 JSON response
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Code: CodeOK, Message: "created", Data: data})
}

// ErrorResponse writes an error envelope. err is only kept for the request log.
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, APIResponse{Code: getErrorCode(status), Message: message})
}

// AbortWithError writes an error envelope and stops the handler chain
func AbortWithError(c *gin.Context, status int, message string, err error) {
	ErrorResponse(c, status, message, err)
	c.Abort()
}

// HandleError maps a service error to its HTTP status and envelope
func HandleError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	}
	c.JSON(status, APIResponse{Code: code, Message: message})
}

// StatusFor returns the HTTP status and response code for an error kind
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden, CodePermissionDenied
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, ErrState):
		return http.StatusConflict, CodeInvalidState
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return CodeValidation
	case 401:
		return CodeUnauthorized
	case 403:
		return CodePermissionDenied
	case 404:
		return CodeNotFound
	case 409:
		return CodeConflict
	case 429:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}
