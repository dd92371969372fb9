package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	tokenIssuer       = "fitness-tracker"
)

type AuthService interface {
	Register(ctx context.Context, username, password string, profile domain.Profile) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	// ParseToken validates a bearer token and returns its claims.
	ParseToken(tokenString string) (*Claims, error)
	// Session loads the user behind a token's uid claim.
	Session(ctx context.Context, userID string) (domain.Session, error)
	UpdateProfile(ctx context.Context, sess domain.Session, profile domain.Profile) (*domain.User, error)
}

// Claims is the JWT payload.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	clock         Clock
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, clock Clock) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour // Default to 1 hour if not set properly
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		clock:         clock,
	}
}

// checkProfile accepts a partially filled profile; zero means "not set".
func checkProfile(p domain.Profile) error {
	if p.Age < 0 || p.Height < 0 || p.Weight < 0 {
		return validationError("profile values cannot be negative")
	}
	if p.Weight > MaxWeightKg {
		return validationError("weight must be at most %d kg", MaxWeightKg)
	}
	return nil
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, username, password string, profile domain.Profile) (*domain.User, error) {
	// 1. Basic Input Validation
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("username cannot be empty")
	}
	if len(password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}
	if err := checkProfile(profile); err != nil {
		return nil, err
	}

	// 2. Check if user already exists
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err // Propagate unexpected repository errors
	}

	// 3. Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	// 4. Create the user domain object
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Profile:      profile,
		// ID, CreatedAt, UpdatedAt are set by the repository layer
	}

	// 5. Save the user; the unique index catches a concurrent registration
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	// Remove password hash before returning
	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, username, password string) (token string, user *domain.User, err error) {
	// 1. Basic Input Validation
	if username == "" || password == "" {
		err = validationError("username and password cannot be empty")
		return
	}

	// 2. Fetch user by username
	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed // Unknown user maps to auth failure
		}
		return "", nil, err
	}

	// 3. Compare the provided password with the stored hash
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	// 4. Authentication successful - Generate JWT
	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	// Clear password hash before returning user object
	user.PasswordHash = ""
	return token, user, nil
}

// --- JWT Helpers ---

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.clock.now()
	claims := &Claims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken verifies the HS256 signature and expiry. Every failure wraps
// ErrInvalidToken.
func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC (e.g. "none" or RS256)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return claims, nil
}

// --- Session & Profile ---

// Session loads the user on every request so profile changes are visible
// without a new token.
func (s *authService) Session(ctx context.Context, userID string) (domain.Session, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: malformed user id", ErrInvalidToken)
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
		}
		return domain.Session{}, err
	}
	return domain.NewSession(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, sess domain.Session, profile domain.Profile) (*domain.User, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if err := checkProfile(profile); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(sess.UserID)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	if err := s.userRepo.UpdateProfile(ctx, id, profile); err != nil {
		return nil, err
	}
	// Re-read so the response carries the stored timestamps
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
