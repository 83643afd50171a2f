package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/lokaldigital/site-service/internal/models"
)

// Validation issues are reported under the JSON field names clients
// actually sent, not Go struct field names.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// fieldErrors translates a bind failure into the API's field-level
// error list. Malformed JSON yields a single body-scoped entry.
func fieldErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Field: "body", Message: "invalid JSON payload"}}
	}
	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{Field: fe.Field(), Message: fieldErrorMessage(fe)})
	}
	return out
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " entry"
		}
		return "must be at least " + fe.Param() + " characters"
	case "url":
		return "must be a well-formed URL"
	}
	return "is invalid"
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fieldErrors(err)})
}

// respondServerError hides the underlying cause from the caller; the
// handler logs it at the boundary where it occurred.
func respondServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

func respondCreated(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}
