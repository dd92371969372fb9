package api

import (
	"alcyxob/fitness-tracker/internal/backup"
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/service"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Context key under which AuthMiddleware stores the domain.Session.
const ContextSessionKey = "session"

// AuthMiddleware validates the bearer token, loads the user's session and
// registers it with the active user registry.
func AuthMiddleware(authService service.AuthService, active *backup.ActiveUsers) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		tokenString := parts[1]

		// Parse and validate the token (signature, expiry, required claims)
		claims, err := authService.ParseToken(tokenString)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		// Load the current profile behind the token
		sess, err := authService.Session(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				// The account behind the token is gone; stop syncing it.
				if active != nil {
					active.Forget(claims.Username)
				}
				abortWithError(c, http.StatusUnauthorized, err.Error())
				return
			}
			logrus.Errorf("load session for %s: %v", claims.UserID, err)
			abortWithError(c, http.StatusInternalServerError, "Failed to load session")
			return
		}

		// Register the user for the periodic sync backup
		if active != nil {
			active.Touch(sess)
		}
		// Set the session in the context for downstream handlers
		c.Set(ContextSessionKey, sess)
		c.Next() // Proceed to the next handler
	}
}

// RequestMetrics counts every request by method and response status.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		// Status is final once the handler chain has returned
		m.CounterRequests.With(prometheus.Labels{
			"method": c.Request.Method,
			"status": strconv.Itoa(c.Writer.Status()),
		}).Inc()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// getSession returns the session set by AuthMiddleware, or an
// unauthenticated one.
func getSession(c *gin.Context) domain.Session {
	raw, exists := c.Get(ContextSessionKey)
	if !exists {
		return domain.Session{}
	}
	sess, _ := raw.(domain.Session)
	return sess
}
