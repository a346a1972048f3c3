package server

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"devhub/internal/middleware"
	"devhub/internal/models"
	"devhub/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// gravatarURL derives a deterministic avatar from the email address.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm",
		hex.EncodeToString(sum[:]))
}

// Register handles user registration
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validation.ValidateName(req.Name); err != nil {
		return s.respondError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return s.respondError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return s.respondError(c, models.NewValidationError(err.Error()))
	}

	ctx := c.UserContext()

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return s.respondError(c, err)
	}
	if existing != nil {
		return s.respondError(c, models.NewConflictError("User already exists"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Avatar:   gravatarURL(req.Email),
	}
	// Create still maps the unique index violation to a conflict, covering
	// the race where two registrations pass the existence check together.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return s.respondError(c, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "user registered", "user_id", user.ID)

	return c.Status(fiber.StatusOK).JSON(tokenResponse{
		Token: token,
		User:  user,
	})
}

// Login handles credential verification and token issuance
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return s.respondError(c, models.NewValidationError("Email and password are required"))
	}

	ctx := c.UserContext()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return s.respondError(c, err)
	}
	// Same response whether the account is missing or the password is wrong.
	if user == nil {
		return s.respondError(c, models.NewUnauthorizedError("Invalid credentials"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return s.respondError(c, models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "user logged in", "user_id", user.ID)

	return c.Status(fiber.StatusOK).JSON(tokenResponse{
		Token: token,
		User:  user,
	})
}

// GetCurrentUser returns the authenticated user, password excluded.
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// generateToken creates a signed JWT for the given user.
func (s *Server) generateToken(userID uint) (string, error) {
	now := time.Now()
	ttl := time.Duration(s.config.TokenTTLSeconds) * time.Second

	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
