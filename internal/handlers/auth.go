package handlers

import (
	"context"
	"errors"

	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/andrevilar/romaneio-api/internal/services"
	"github.com/andrevilar/romaneio-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	userService UserServiceInterface
	jwtService  *services.JWTService
}

func NewAuthHandler(userService UserServiceInterface, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.BadRequest("name, email and password are required")
		return
	}

	user, err := h.userService.Register(context.Background(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrMasterRegistration) {
			c.BadRequest("the MASTER account is fixed and cannot be registered")
			return
		}
		if errors.Is(err, services.ErrEmailTaken) {
			c.BadRequest("a user with this email already exists")
			return
		}
		c.BadRequest(err.Error())
		return
	}

	h.respondWithToken(c, 201, user)
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.userService.Authenticate(context.Background(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		if errors.Is(err, services.ErrInvalidPassword) {
			c.Unauthorized("invalid password")
			return
		}
		c.InternalServerError("login failed")
		return
	}

	h.respondWithToken(c, 200, user)
}

// RequestPasswordReset appends to the audit trail and always responds
// 200, to avoid leaking which addresses exist.
func (h *AuthHandler) RequestPasswordReset(c *drift.Context) {
	var req dto.PasswordResetRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	if err := h.userService.RequestPasswordReset(context.Background(), req.Email); err != nil {
		c.InternalServerError("failed to record reset request")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "reset request recorded"})
}

func (h *AuthHandler) respondWithToken(c *drift.Context, status int, user *models.User) {
	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		c.InternalServerError("failed to issue token")
		return
	}

	_ = c.JSON(status, dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(h.jwtService.Expiry().Seconds()),
		User:      userResponse(user),
	})
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		PhotoBase64: u.PhotoBase64,
	}
}
