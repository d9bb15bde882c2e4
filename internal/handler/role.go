package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashkhen/user-accounts-service/internal/model"
	"github.com/ashkhen/user-accounts-service/internal/repository"
)

// RoleStore is the read-only slice of the role repository.
type RoleStore interface {
	List(ctx context.Context) ([]model.Role, error)
	GetByID(ctx context.Context, id uint8) (model.Role, error)
}

// RoleHandler serves the role directory. Responses are good cache
// candidates; the routes are registered behind the Redis response
// cache middleware.
type RoleHandler struct {
	Roles RoleStore
}

func NewRoleHandler(roles RoleStore) *RoleHandler {
	return &RoleHandler{Roles: roles}
}

type roleResp struct {
	ID          uint8     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newRoleResp(r model.Role) roleResp {
	return roleResp{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// List returns all roles ordered by id.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	roles, err := h.Roles.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := make([]roleResp, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, newRoleResp(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID returns one role or 404.
func (h *RoleHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 8)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.GetByID(ctx, uint8(id))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf(msgRoleNotFound, id)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newRoleResp(role))
}
