package api

import (
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/stats"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	cases := map[error]int{
		service.ErrNotAuthenticated:                              http.StatusUnauthorized,
		service.ErrInvalidToken:                                  http.StatusUnauthorized,
		fmt.Errorf("%w: bad title", service.ErrValidationFailed): http.StatusBadRequest,
		stats.ErrBMIUnavailable:                                  http.StatusBadRequest,
		service.ErrNoteNotFound:                                  http.StatusNotFound,
		service.ErrNoBackup:                                      http.StatusNotFound,
		service.ErrUserAlreadyExists:                             http.StatusConflict,
		repository.ErrRevisionConflict:                           http.StatusConflict,
		service.ErrArchiveDisabled:                               http.StatusServiceUnavailable,
		errors.New("disk on fire"):                               http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, errorStatus(err), err.Error())
	}
}
