package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username string         `json:"username" binding:"required"`
	Password string         `json:"password" binding:"required,min=8"`
	Profile  domain.Profile `json:"profile"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Profile   domain.Profile `json:"profile"`
	CreatedAt time.Time      `json:"createdAt"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (username already exists)"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	// Call the service layer
	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Profile)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Return created user info (excluding sensitive data)
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Unknown user and wrong password both map to 401
		respondWithError(c, err)
		return
	}

	// Return token and user info

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Me godoc
// @Summary Current user
// @Description Returns the id, username and profile behind the bearer token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	sess := getSession(c)
	c.JSON(http.StatusOK, gin.H{
		"userId":   sess.UserID,
		"username": sess.Username,
		"profile":  sess.Profile,
	})
}

// UpdateProfile godoc
// @Summary Replace the profile
// @Description Age, height (cm) and weight (kg); zero leaves a field unset.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body domain.Profile true "Profile"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Negative or out-of-range values"
// @Router /me/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var profile domain.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), getSession(c), profile)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// --- Helper Functions ---

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Profile:   user.Profile,
		CreatedAt: user.CreatedAt,
	}
}
