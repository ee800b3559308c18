package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-menu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// RegisterBindingTypes teaches gin's validator about decimal prices.
// It must run before any request carrying a menu spec is bound.
func RegisterBindingTypes() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		services.RegisterDecimalTypes(v)
	}
}

// errorStatus maps a service error onto an HTTP status and a message code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, models.ErrValidationFailed
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, models.ErrNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, models.ErrConflict
	case errors.Is(err, services.ErrTransactionAborted):
		return http.StatusConflict, models.ErrTransactionAborted
	case errors.Is(err, services.ErrEmailInUse):
		return http.StatusBadRequest, models.MsgEmailAlreadyInUse
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.MsgInvalidCredentials
	case errors.Is(err, services.ErrInvalidResetToken):
		return http.StatusUnauthorized, models.MsgInvalidOrExpiredToken
	case errors.Is(err, services.ErrInvalidSessionToken):
		return http.StatusUnauthorized, models.MsgInvalidCookie
	case errors.Is(err, services.ErrSessionExpired):
		return http.StatusForbidden, models.MsgExpiredCookie
	default:
		return http.StatusInternalServerError, models.ErrInternalServer
	}
}

// respondError writes the error body for err. Driver messages stay in the logs.
func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)

	entry := log.WithError(err).WithFields(log.Fields{
		"method":          c.Request.Method,
		"path":            c.FullPath(),
		"status":          status,
		"organization_id": middleware.OrganizationID(c),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	_ = c.Error(err)
	c.JSON(status, models.NewAPIError(code))
}

// respondBindError answers a body that could not be decoded or failed its binding rules
func respondBindError(c *gin.Context, err error) {
	log.WithError(err).WithField("path", c.FullPath()).Debug("Invalid request body")
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed))
}

// patchBinding decodes a JSON body without the binding rules, partial updates omit required fields
type patchBinding struct{}

func (patchBinding) Name() string { return "json-patch" }

func (patchBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errors.New("invalid request")
	}
	return json.NewDecoder(req.Body).Decode(obj)
}
