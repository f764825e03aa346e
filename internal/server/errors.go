package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/recommender"
)

// ErrBadRequest indicates a body that could not be decoded.
type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		cfgErr     *recommender.ConfigurationError
		inputErr   *recommender.InputError
		badReq     *ErrBadRequest
		validation validator.ValidationErrors
		encErr     *embedding.EncoderFailure
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &inputErr), errors.As(err, &badReq), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &encErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
