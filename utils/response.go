// File: /utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tablemates-api/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Kind:    string(services.KindValidation),
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// SendServiceError maps a structured service failure onto an HTTP response.
// Clients surface the message in a transient notification; the kind lets
// them branch without parsing text.
func SendServiceError(c *gin.Context, err *services.Error) {
	c.JSON(StatusForKind(err.Kind), ErrorResponse{
		Error: err.Message,
		Kind:  string(err.Kind),
		Code:  StatusForKind(err.Kind),
	})
}

// StatusForKind translates the service error taxonomy to HTTP statuses
func StatusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound, services.KindNotAMember:
		return http.StatusNotFound
	case services.KindNotAuthorized:
		return http.StatusForbidden
	case services.KindAlreadyJoined, services.KindFull, services.KindNotOpen, services.KindConflict:
		return http.StatusConflict
	case services.KindCreatorCannotLeave, services.KindValidation:
		return http.StatusBadRequest
	case services.KindProfileUnavailable:
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}
