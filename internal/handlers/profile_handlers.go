package handlers

import (
	"net/http"

	"catena/internal/common"
	"catena/internal/services"

	"github.com/labstack/echo/v4"
)

// ProfileHandlers manages the current user's avatar.
type ProfileHandlers struct {
	userService services.UserService
}

func NewProfileHandlers(userService services.UserService) *ProfileHandlers {
	return &ProfileHandlers{userService: userService}
}

// UploadProfilePic godoc
// @Summary      Upload a profile picture
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        profilePic  formData  file  true  "Image"
// @Success      200         {object}  map[string]string
// @Failure      400         {object}  common.ErrorResponse
// @Router       /profile-pic/upload-profile-pic [post]
func (h *ProfileHandlers) UploadProfilePic(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("profilePic")
	if err != nil {
		return common.FieldError("profilePic", "is required")
	}
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.userService.UploadProfilePic(c.Request().Context(), user.ID,
		fh.Filename, fh.Header.Get(echo.HeaderContentType), file, fh.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile picture updated", "profilePicUrl": url})
}

func (h *ProfileHandlers) GetProfilePic(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	url, err := h.userService.ProfilePicURL(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"profilePicUrl": url})
}

func (h *ProfileHandlers) DeleteProfilePic(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeleteProfilePic(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile picture deleted successfully"})
}
