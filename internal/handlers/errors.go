package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"catena/internal/common"
	"catena/internal/middleware"
	"catena/internal/models"
	"catena/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestValidator adapts go-playground/validator to echo.Validator. Failures
// come back as *common.ValidationError named by the JSON field.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.NewValidationError("invalid request")
	}
	fe := verrs[0]
	return common.FieldError(fe.Field(), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "numeric":
		return "must be numeric"
	default:
		return "is invalid"
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return http.StatusText(status)
	}
}

// HTTPErrorHandler renders every error in the {success, error, message}
// envelope. Internal errors are logged and their text is never returned.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		body   common.ErrorResponse
		he     *echo.HTTPError
	)
	if errors.As(err, &he) {
		status = he.Code
		body = common.ErrorResponse{Error: codeForStatus(status), Message: fmt.Sprint(he.Message)}
		if status >= 500 {
			body.Message = "Internal server error"
		}
	} else {
		status, body = common.Classify(err)
	}

	if status >= 500 {
		logger.FromEcho(c).Error("request failed", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logger.FromEcho(c).Warn("failed to write error response", zap.Error(err))
	}
}

// bind decodes the request body and validates it.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return common.NewValidationError("invalid request body")
	}
	return c.Validate(req)
}

// currentUser returns the authenticated user or Unauthorized.
func currentUser(c echo.Context) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, common.ErrUnauthorized
	}
	return user, nil
}

// Message is the body of responses that carry no resource.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func message(c echo.Context, status int, text string) error {
	return c.JSON(status, Message{Success: true, Message: text})
}
