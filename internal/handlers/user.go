package handlers

import (
	"context"
	"errors"

	"github.com/andrevilar/romaneio-api/internal/middleware"
	"github.com/andrevilar/romaneio-api/internal/services"
	"github.com/andrevilar/romaneio-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, userResponse(user))
}

func (h *UserHandler) UpdateProfile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(context.Background(), userID, req.DisplayName, req.PhotoBase64)
	if err != nil {
		c.InternalServerError("failed to update profile")
		return
	}

	_ = c.JSON(200, userResponse(user))
}

// ListAccounts is the master's account roster. Routing guards it with
// the manage_accounts capability.
func (h *UserHandler) ListAccounts(c *drift.Context) {
	users, err := h.userService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to list accounts")
		return
	}

	response := make([]dto.UserResponse, len(users))
	for i := range users {
		response[i] = userResponse(&users[i])
	}
	_ = c.JSON(200, response)
}

// DeleteAccount removes a user. Orders owned by the account are kept;
// their denormalized owner snapshot simply goes stale.
func (h *UserHandler) DeleteAccount(c *drift.Context) {
	actingUserID := middleware.GetUserID(c)

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		c.BadRequest("invalid account id")
		return
	}

	if err := h.userService.Delete(context.Background(), accountID, actingUserID); err != nil {
		if errors.Is(err, services.ErrCannotDeleteSelf) {
			c.BadRequest("cannot delete your own account")
			return
		}
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("account not found")
			return
		}
		c.InternalServerError("failed to delete account")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "account deleted"})
}
