package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/pkg/logger"
)

// bindAndValidate decodes the JSON body into req and runs struct validation.
// On failure it writes the 400 response itself and returns false.
func bindAndValidate(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := v.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return false
	}

	return true
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, entity.ErrorResponse{Error: message})
}

// respondInternal hides the store error from the client and attaches it to
// the request log line.
func respondInternal(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	logger.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Msg(message)
	respondError(c, http.StatusInternalServerError, message)
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			msgs = append(msgs, fieldMessage(fieldError))
		}
		return strings.Join(msgs, "; ")
	}
	return "Validation failed"
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "gte", "lte", "max", "len":
		return fe.Field() + " must satisfy " + fe.Tag() + "=" + fe.Param()
	default:
		return fe.Field() + " is " + fe.Tag()
	}
}
