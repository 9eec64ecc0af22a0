package handlers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/devconnector/internal/middleware"
	"github.com/joshua-takyi/devconnector/internal/models"
)

// RequestTimeout bounds the store work of a single request.
const RequestTimeout = 10 * time.Second

// RegisterValidation makes gin's binding validator report json field names.
func RegisterValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}

// bindJSON decodes and validates the body into dst, answering 400 itself on
// failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, models.ValidationErrorResponse(models.FieldMessages(err)))
			return false
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return false
	}
	return true
}

// currentUserID returns the authenticated caller's id. Routes using it sit
// behind AuthMiddleware.
func currentUserID(c *gin.Context) (string, bool) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("No token, authorization denied"))
		return "", false
	}
	return claims.User.ID, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the client-facing error. Internal errors are handed to
// middleware.ErrorHandler so their details are logged and never returned.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		return
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		c.JSON(status, models.ErrorResponse(appErr.Message))
		return
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}
