package handlers

import (
	"net/http"
	"strconv"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers manages user accounts.
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

type userPagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalUsers  int `json:"totalUsers"`
}

type userListResponse struct {
	Data       []*models.User `json:"data"`
	Pagination userPagination `json:"pagination"`
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role         query     string  false  "Role"
// @Param        designation  query     string  false  "Designation"
// @Param        userType     query     string  false  "User type"
// @Param        search       query     string  false  "Name or email"
// @Param        page         query     int     false  "Page"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  userListResponse
// @Router       /auth/users [get]
func (h *UserHandlers) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, p, err := h.userService.List(c.Request().Context(), models.UserFilter{
		Role:        c.QueryParam("role"),
		Designation: c.QueryParam("designation"),
		UserType:    c.QueryParam("userType"),
		Search:      c.QueryParam("search"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{
		Data:       users,
		Pagination: userPagination{CurrentPage: p.CurrentPage, TotalPages: p.TotalPages, TotalUsers: p.Total},
	})
}

// GetUser returns one user by id.
func (h *UserHandlers) GetUser(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Only allow-listed fields are applied. Non-admins may only edit themselves.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      models.UserUpdate  true  "Fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.ErrorResponse
// @Failure      403   {object}  common.ErrorResponse
// @Router       /auth/{id} [put]
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	var upd models.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return common.NewValidationError("invalid request body")
	}

	updated, err := h.userService.Update(c.Request().Context(), id, upd, actor.ID, actor.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "User updated successfully",
		"updatedUser": updated,
	})
}

func (h *UserHandlers) ResetPassword(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	var req models.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.userService.ResetPassword(c.Request().Context(), id, req.NewPassword, actor.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User password reset successfully"})
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
