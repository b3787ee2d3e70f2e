package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/chatwire/internal/groups"
	"github.com/chatwire/chatwire/internal/middleware"
)

// GroupHandler exposes group lifecycle operations over HTTP.
type GroupHandler struct {
	groups *groups.Service
}

func NewGroupHandler(groups *groups.Service) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// Create handles POST /api/groups. The caller becomes the group's admin.
func (h *GroupHandler) Create(c echo.Context) error {
	var req CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	callerID := middleware.CallerID(c)
	group, err := h.groups.Create(c.Request().Context(), callerID, req.Name, req.Description, req.Members)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, group)
}

// Get handles GET /api/groups/:groupId.
func (h *GroupHandler) Get(c echo.Context) error {
	group, err := h.groups.Find(c.Request().Context(), c.Param("groupId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, group)
}

// AddMembers handles PUT /api/groups/:groupId/members.
func (h *GroupHandler) AddMembers(c echo.Context) error {
	var req AddMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	callerID := middleware.CallerID(c)
	group, err := h.groups.AddMembers(c.Request().Context(), callerID, c.Param("groupId"), req.UserIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, group)
}

// RemoveMember handles DELETE /api/groups/:groupId/members/:userId.
func (h *GroupHandler) RemoveMember(c echo.Context) error {
	callerID := middleware.CallerID(c)
	group, err := h.groups.RemoveMember(c.Request().Context(), callerID, c.Param("groupId"), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, group)
}

// Promote handles PUT /api/groups/:groupId/promote.
func (h *GroupHandler) Promote(c echo.Context) error {
	var req PromoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	callerID := middleware.CallerID(c)
	group, err := h.groups.Promote(c.Request().Context(), callerID, c.Param("groupId"), req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, group)
}

// Delete handles DELETE /api/groups/:groupId. Deletes the group and its
// message history.
func (h *GroupHandler) Delete(c echo.Context) error {
	callerID := middleware.CallerID(c)
	if err := h.groups.Delete(c.Request().Context(), callerID, c.Param("groupId")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
