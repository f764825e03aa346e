package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/recommender"
)

func TestHTTPStatus(t *testing.T) {
	type payload struct {
		TopK int `validate:"min=1"`
	}
	validationErr := validator.New().Struct(payload{})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "configuration", err: &recommender.ConfigurationError{Message: "index has not been built"}, want: http.StatusServiceUnavailable},
		{name: "input", err: &recommender.InputError{Message: "bad top_k"}, want: http.StatusBadRequest},
		{name: "bad body", err: &ErrBadRequest{Message: "invalid request body"}, want: http.StatusBadRequest},
		{name: "validator", err: validationErr, want: http.StatusBadRequest},
		{name: "encoder", err: &embedding.EncoderFailure{Message: "timeout"}, want: http.StatusBadGateway},
		{name: "wrapped encoder", err: fmt.Errorf("search: %w", &embedding.EncoderFailure{Message: "nan"}), want: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrBadRequest(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &ErrBadRequest{Message: "invalid request body", Cause: cause}
	assert.Equal(t, "invalid request body: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid request body", (&ErrBadRequest{Message: "invalid request body"}).Error())
}
