package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-menu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie written on login
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type OrganizationController struct {
	organizations services.OrganizationService
	sessions      services.SessionService
	cookie        CookieConfig
	// exposeResetToken returns the reset token in the response body, there is no mailer yet
	exposeResetToken bool
}

func NewOrganizationController(organizations services.OrganizationService, sessions services.SessionService, cookie CookieConfig, exposeResetToken bool) *OrganizationController {
	return &OrganizationController{
		organizations:    organizations,
		sessions:         sessions,
		cookie:           cookie,
		exposeResetToken: exposeResetToken,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register godoc
// @Summary Register an organization
// @Tags organization
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Email and password"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.APIError "VALIDATION_FAILED or EMAIL_ALREADY_IN_USE"
// @Router /organization/register [post]
func (oc *OrganizationController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := oc.organizations.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewEnvelope(gin.H{"organization": org}, models.MsgRegistered))
}

// Login godoc
// @Summary Log in
// @Description Open a session and set it as the auth cookie
// @Tags organization
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Email and password"
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.APIError "INVALID_CREDENTIALS"
// @Router /organization/login [post]
func (oc *OrganizationController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := oc.organizations.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := oc.sessions.CreateSession(c.Request.Context(), org.ID, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oc.cookie.Name, session.ID, int(oc.cookie.MaxAge.Seconds()), "/", "", oc.cookie.Secure, true)
	c.JSON(http.StatusOK, models.NewEnvelope(gin.H{
		"session_token": session.ID,
		"organization":  org,
	}, models.MsgLoggedIn))
}

// GetOrganization godoc
// @Summary Get the current organization
// @Description Organization details with its menus and catalog
// @Tags organization
// @Produce json
// @Success 200 {object} models.Envelope{data=models.Organization}
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Router /organization [get]
func (oc *OrganizationController) GetOrganization(c *gin.Context) {
	org, err := oc.organizations.GetOrganization(c.Request.Context(), middleware.OrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(org, ""))
}

// Logout godoc
// @Summary Log out
// @Description End the current session and clear the cookie
// @Tags organization
// @Success 200
// @Failure 401 {object} models.APIError
// @Router /organization/logout [delete]
func (oc *OrganizationController) Logout(c *gin.Context) {
	if err := oc.sessions.Logout(c.Request.Context(), c.GetString(middleware.SessionIDKey)); err != nil {
		respondError(c, err)
		return
	}
	oc.clearCookie(c)
	c.Status(http.StatusOK)
}

// LogoutAll godoc
// @Summary Revoke other sessions
// @Description End every session of the organization except the current one
// @Tags organization
// @Success 200
// @Failure 401 {object} models.APIError
// @Router /organization/logout-all [delete]
func (oc *OrganizationController) LogoutAll(c *gin.Context) {
	err := oc.sessions.LogoutOthers(c.Request.Context(), middleware.OrganizationID(c), c.GetString(middleware.SessionIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Tags organization
// @Accept json
// @Produce json
// @Param body body object{email=string} true "Account email"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Router /organization/forgot-password [post]
func (oc *OrganizationController) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := oc.organizations.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	var data interface{}
	if oc.exposeResetToken {
		data = gin.H{"resetToken": token}
	}
	c.JSON(http.StatusOK, models.NewEnvelope(data, models.MsgGenerateTokenSent))
}

// ResetPassword godoc
// @Summary Reset a password
// @Tags organization
// @Accept json
// @Produce json
// @Param resetToken path string true "Token from forgot-password"
// @Param body body object{newPassword=string} true "New password"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError "INVALID_OR_EXPIRED_TOKEN"
// @Router /organization/reset-password/{resetToken} [post]
func (oc *OrganizationController) ResetPassword(c *gin.Context) {
	var req struct {
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := oc.organizations.ResetPassword(c.Request.Context(), c.Param("resetToken"), req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(nil, models.MsgResetPasswordSucceeded))
}

// DeleteMe godoc
// @Summary Delete the current organization
// @Description Delete the organization with everything it owns
// @Tags organization
// @Produce json
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.APIError
// @Router /organization/me [delete]
func (oc *OrganizationController) DeleteMe(c *gin.Context) {
	if err := oc.organizations.DeleteOrganization(c.Request.Context(), middleware.OrganizationID(c)); err != nil {
		respondError(c, err)
		return
	}
	oc.clearCookie(c)
	c.JSON(http.StatusOK, models.NewEnvelope(nil, models.MsgUserDeleted))
}

func (oc *OrganizationController) clearCookie(c *gin.Context) {
	c.SetCookie(oc.cookie.Name, "", -1, "/", "", oc.cookie.Secure, true)
}
