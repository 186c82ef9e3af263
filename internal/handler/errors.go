package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"notehub-server/internal/domain"
	"notehub-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

// writeError maps service errors onto the response envelope. Anything not
// recognised is logged and reported as a generic server error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		response.BadRequest(w, "User already exists")
	case errors.Is(err, domain.ErrUserNotFound):
		response.BadRequest(w, "User not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.BadRequest(w, "Invalid credentials")
	case errors.Is(err, domain.ErrNoteNotFound):
		response.NotFound(w, "Note not found")
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, "You do not have permission to modify this note")
	case errors.Is(err, domain.ErrUpstream):
		response.BadGateway(w, "Failed to get AI suggestions")
	default:
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
		response.InternalError(w, "Server error")
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// The returned error wraps domain.ErrValidation.
func decodeAndValidate(r *http.Request, v *validator.Validate, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}

	if err := v.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, validationMessage(err))
	}

	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
