package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashkhen/user-accounts-service/internal/config"
	"github.com/ashkhen/user-accounts-service/internal/model"
	"github.com/ashkhen/user-accounts-service/internal/queue"
	"github.com/ashkhen/user-accounts-service/internal/repository"
	"github.com/ashkhen/user-accounts-service/internal/service"
)

// UserStore is the slice of the user repository the handlers need.
type UserStore interface {
	Create(ctx context.Context, email, firstName, lastName, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, p repository.UpdateUserParams, cost int) (model.User, error)
	DeactivateByEmail(ctx context.Context, email string) error
}

// UserHandler bundles dependencies for the user CRUD endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewUserHandler(cfg config.Config, users UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type createUserReq struct {
	Email          string `json:"email" validate:"required,email"`
	FirstName      string `json:"first_name" validate:"required,person_name,max=100"`
	LastName       string `json:"last_name" validate:"required,person_name,max=100"`
	Password       string `json:"password" validate:"required,min=8,max=100,strong_password"`
	RepeatPassword string `json:"repeat_password" validate:"required,eqfield=Password"`
}

type updateUserReq struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	FirstName      *string `json:"first_name" validate:"omitempty,person_name,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,person_name,max=100"`
	Password       *string `json:"password" validate:"omitempty,min=8,max=100,strong_password"`
	RepeatPassword *string `json:"repeat_password"`
}

type userResp struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

func newUserResp(u model.User) userResp {
	return userResp{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
	}
}

// Create registers a new account with the default role. The unique
// index on email decides duplicate registrations, including racing
// ones, and maps to 409.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Email, req.FirstName, req.LastName, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": msgUserEmailExists})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	go func() {
		_ = service.PublishAuthEvent(context.Background(), queue.NewRegistered(id, req.Email))
	}()
	return c.JSON(http.StatusCreated, userResp{
		ID:        id,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true, // accounts start active
	})
}

// Update applies a partial update to a user. A taken email answers
// 400 here, unlike the 409 on registration; clients depend on that
// difference.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	// eqfield does not reach across nil pointers, so the password pair
	// is checked by hand.
	if req.Password != nil && (req.RepeatPassword == nil || *req.RepeatPassword != *req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgPasswordMismatch})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, id, repository.UpdateUserParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}, h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgUserNotFound})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msgUserEmailExists})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, newUserResp(u))
}

// Deactivate disables the account with the given email. Missing and
// already inactive accounts both answer 404, so repeating the request
// is not idempotent on the status code.
func (h *UserHandler) Deactivate(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.DeactivateByEmail(ctx, email); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgUserNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate user failed"})
	}

	go func() {
		_ = service.PublishAuthEvent(context.Background(), queue.NewDeactivated(strings.ToLower(email)))
	}()
	return c.NoContent(http.StatusNoContent)
}

// Search returns a single user when the email query parameter is
// present, otherwise the whole directory.
func (h *UserHandler) Search(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if email != "" {
		u, err := h.Users.GetByEmail(ctx, email)
		if err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": msgUserNotFoundByEmail})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, newUserResp(u))
	}

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := make([]userResp, 0, len(users))
	for _, u := range users {
		resp = append(resp, newUserResp(u))
	}
	return c.JSON(http.StatusOK, resp)
}
