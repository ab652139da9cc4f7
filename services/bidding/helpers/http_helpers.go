package helpers

import (
	"errors"
	"net/http"

	"auction-engine/internal/biddingerrors"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusBadRequest, utils.CodeInvalidRequest, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps service errors to an HTTP status, the stable error
// code and a short message. Infrastructure failures get a generic answer.
func MapErrorToHTTP(err error) (int, string, string) {
	var be *biddingerrors.Error
	if !errors.As(err, &be) {
		return http.StatusInternalServerError, utils.CodeInternal, "internal server error"
	}

	switch be.Kind {
	case biddingerrors.KindNotFound:
		return http.StatusNotFound, be.Code, be.Message
	case biddingerrors.KindValidation:
		return http.StatusBadRequest, be.Code, be.Message
	case biddingerrors.KindConflict:
		return http.StatusConflict, be.Code, be.Message
	default:
		return http.StatusInternalServerError, utils.CodeInternal, "internal server error"
	}
}

// RespondError writes the mapped error and logs the full cause server-side
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, code, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, code, message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["code"] = code
	fields["error"] = err.Error()

	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
