// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxJSONBodyBytes = 1 << 20

// responder holds the JSON rendering shared by every handler group
type responder struct {
	logger   *zap.Logger
	validate *validator.Validate
}

func newResponder(logger *zap.Logger) responder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return responder{logger: logger, validate: v}
}

// NewErrorWriter returns the error renderer used by the auth middleware
func NewErrorWriter(logger *zap.Logger) middleware.ErrorWriter {
	return responder{logger: logger.Named("http")}.writeError
}

// writeJSON writes a JSON response
func (rs responder) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError renders err as an ErrorResponse. Errors that are not
// AppErrors are reported as internal errors without leaking their text.
func (rs responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "Internal server error")
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError {
		rs.logger.Error("Request failed",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	rs.writeJSON(w, status, errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}

// decodeJSON reads a bounded JSON body into dst and validates it
func (rs responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case stderrors.As(err, &maxErr):
			return errors.NewBadRequestError("Request body too large")
		case stderrors.Is(err, io.EOF):
			return errors.NewBadRequestError("Request body is empty")
		default:
			return errors.NewBadRequestError("Invalid JSON payload")
		}
	}

	return rs.validateStruct(dst)
}

func (rs responder) validateStruct(dst interface{}) error {
	err := rs.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return errors.NewValidationErrors(out)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must have a length of at least " + fe.Param()
	case "max":
		return fe.Field() + " must have a length of at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
