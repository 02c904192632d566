package api

import (
	"errors"
	"fmt"
	"net/http"

	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/adapters/seasonfile"
	service "github.com/okian/podium/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrRouteNotFound    = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Error codes carried in ErrorResponse.Code.
const (
	codeBadRequest = "bad_request"
	codeNotFound   = "not_found"
	codeTooLarge   = "too_large"
	codeInternal   = "internal_error"
)

// NewKind tags kind with the operation that produced it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with op and kind; both remain matchable with errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap tags err with op.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// classify maps domain and transport errors onto HTTP status codes.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, codeTooLarge
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUnknownEvent),
		errors.Is(err, service.ErrUnknownDriver),
		errors.Is(err, service.ErrUnknownTeam):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, repository.ErrInvalidSeasonID),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, seasonfile.ErrDecode):
		return http.StatusBadRequest, codeBadRequest
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
