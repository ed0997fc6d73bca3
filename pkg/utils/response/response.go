package response

import (
	"net/http"

	"civicboard/pkg/errors"
	"civicboard/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// exposeDetails controls whether internal error details are included in 500
// responses. Set once at startup from the deployment mode.
var exposeDetails bool

// SetExposeDetails enables internal error details in 500 responses.
// Call once at startup; development mode only.
func SetExposeDetails(enabled bool) {
	exposeDetails = enabled
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// listResponse carries a collection with its count. Count and Data are always
// present, even for an empty result.
type listResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

// Success sends a successful response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage sends a successful response with custom message
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 response with custom message and data
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessList sends a successful collection response with its count
func SuccessList(c *gin.Context, count int, items interface{}) {
	c.JSON(http.StatusOK, listResponse{
		Success: true,
		Count:   count,
		Data:    items,
	})
}

// Error sends an error response
// It automatically extracts error code and message from the error
func Error(c *gin.Context, err error) {
	customErr := errors.GetError(err)
	status := customErr.Code.HTTPStatus()

	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request error",
			zap.Int("code", int(customErr.Code)),
			zap.String("message", customErr.Error()),
			zap.String("stack", customErr.Stack),
		)
	} else {
		logger.Debug(c.Request.Context(), "request rejected",
			zap.Int("code", int(customErr.Code)),
			zap.String("message", customErr.Error()),
		)
	}

	resp := Response{
		Success: false,
		Message: customErr.Error(),
	}
	if status >= http.StatusInternalServerError {
		// Internal failures always surface the generic message; the detail is
		// gated by deployment mode.
		resp.Message = errors.InternalServerError.Message()
		if exposeDetails {
			if customErr.Err != nil {
				resp.Error = customErr.Err.Error()
			} else {
				resp.Error = customErr.Error()
			}
		}
	}

	c.JSON(status, resp)
}

// ErrorWithCode sends an error response with specific error code
func ErrorWithCode(c *gin.Context, code errors.ErrorCode, message string) {
	if message == "" {
		message = code.Message()
	}
	c.JSON(code.HTTPStatus(), Response{
		Success: false,
		Message: message,
	})
}

// BadRequest sends a 400 bad request error
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, errors.InvalidParams, message)
}

// NotFound sends a 404 not found error
func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, errors.NotFound, message)
}

// InternalServerError sends a 500 internal server error
func InternalServerError(c *gin.Context, err error) {
	Error(c, errors.InternalError(err))
}
