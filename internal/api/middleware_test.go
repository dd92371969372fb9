package api

import (
	"alcyxob/fitness-tracker/internal/backup"
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deletedUserAuth accepts any token for "ghost" but no longer finds the user.
type deletedUserAuth struct {
	service.AuthService
}

func (deletedUserAuth) ParseToken(string) (*service.Claims, error) {
	return &service.Claims{UserID: "64b7f0c2a1b2c3d4e5f60718", Username: "ghost"}, nil
}

func (deletedUserAuth) Session(context.Context, string) (domain.Session, error) {
	return domain.Session{}, fmt.Errorf("%w: user no longer exists", service.ErrInvalidToken)
}

func TestAuthMiddleware_ForgetsRemovedUsers(t *testing.T) {
	active := backup.NewActiveUsers()
	active.Touch(domain.Session{UserID: "64b7f0c2a1b2c3d4e5f60718", Username: "ghost"})
	active.Touch(domain.Session{UserID: "64b7f0c2a1b2c3d4e5f60719", Username: "alice"})

	router := gin.New()
	router.GET("/private", AuthMiddleware(deletedUserAuth{}, active), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	sessions := active.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "alice", sessions[0].Username)
}
