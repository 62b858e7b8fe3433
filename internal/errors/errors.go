package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moviechain/moviechain/internal/logger"
)

// GameError represents a structured error with HTTP context
type GameError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *GameError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *GameError) Unwrap() error {
	return e.Cause
}

// ToGinResponse sends the error as a standardized JSON response
func (e *GameError) ToGinResponse(c *gin.Context) {
	statusCode := e.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	response := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}

	if len(e.Context) > 0 {
		response["details"] = e.Context
	}

	logger.Error("HTTP error response",
		logger.Int("status", statusCode),
		logger.String("code", e.Code),
		logger.String("message", e.Message),
		logger.String("path", c.Request.URL.Path),
		logger.String("method", c.Request.Method))

	c.JSON(statusCode, response)
}

// Common error constructors

func NewValidationError(message string, field string) *GameError {
	return &GameError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Context:    map[string]interface{}{"field": field},
	}
}

func NewNotFoundError(resource string, id string) *GameError {
	return &GameError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

// NewProviderError wraps a transient failure talking to the remote
// catalog provider.
func NewProviderError(operation string, cause error) *GameError {
	return &GameError{
		Code:       "PROVIDER_ERROR",
		Message:    "Catalog provider request failed",
		HTTPStatus: http.StatusBadGateway,
		Context:    map[string]interface{}{"operation": operation},
		Cause:      cause,
	}
}

func NewInternalError(message string, cause error) *GameError {
	return &GameError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// HTTP helpers to eliminate duplicate error handling

// HandleValidationError sends a validation error response
func HandleValidationError(c *gin.Context, message string, field string) {
	NewValidationError(message, field).ToGinResponse(c)
}

// HandleNotFound sends a not found error response
func HandleNotFound(c *gin.Context, resource string, id string) {
	NewNotFoundError(resource, id).ToGinResponse(c)
}

// HandleInternalError sends an internal server error response
func HandleInternalError(c *gin.Context, message string, err error) {
	NewInternalError(message, err).ToGinResponse(c)
}
