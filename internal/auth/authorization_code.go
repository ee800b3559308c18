package auth

import (
	"net/http"
	"net/url"
	"time"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const codeLifetime = 10 * time.Minute

// HandleAuthorize issues an authorization code for the organization of the current session
// @Summary Authorization Endpoint
// @Description Approve a client on behalf of the logged in organization and redirect with a code
// @Tags OAuth2
// @Produce json
// @Param response_type query string true "Must be code"
// @Param client_id query string true "Client ID"
// @Param redirect_uri query string false "Registered redirect URI"
// @Param scope query string false "Space separated scopes"
// @Param state query string false "Opaque value echoed back"
// @Success 302
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.APIError
// @Router /oauth/authorize [get]
func (o *OAuthService) HandleAuthorize(c *gin.Context) {
	clientID := c.Query("client_id")
	redirectURI := c.Query("redirect_uri")
	state := c.Query("state")

	if c.Query("response_type") != "code" {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error("unsupported_response_type", "response_type must be code"))
		return
	}

	var client models.OAuthClient
	if err := o.db.WithContext(c.Request.Context()).Where("id = ?", clientID).Take(&client).Error; err != nil {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidClient, ""))
		return
	}
	if !containsField(client.GrantTypes, "authorization_code") {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnauthorizedClient, "authorization_code grant not allowed"))
		return
	}

	// Validate redirect URI
	if redirectURI == "" {
		redirectURI = client.RedirectURI
	}
	if redirectURI == "" || redirectURI != client.RedirectURI {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, "invalid redirect_uri"))
		return
	}

	scope, ok := resolveScope(c.Query("scope"), client.Scopes)
	if !ok {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidScope, ""))
		return
	}

	// Set by the session middleware
	orgID := c.GetString("organizationID")
	if orgID == "" {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized))
		return
	}

	code := uuid.NewString()
	now := time.Now().UTC()
	authCode := &models.OAuthCode{
		Code:                code,
		ClientID:            clientID,
		OrganizationID:      orgID,
		Scopes:              scope,
		RedirectURI:         redirectURI,
		CodeChallenge:       c.Query("code_challenge"),
		CodeChallengeMethod: c.Query("code_challenge_method"),
		CreatedAt:           now,
		ExpiresAt:           now.Add(codeLifetime),
	}

	if err := o.db.WithContext(c.Request.Context()).Create(authCode).Error; err != nil {
		log.WithError(err).Error("Failed to store authorization code")
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error", "code generation failed"))
		return
	}

	target, err := url.Parse(redirectURI)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, "invalid redirect_uri"))
		return
	}
	query := target.Query()
	query.Set("code", code)
	if state != "" {
		query.Set("state", state)
	}
	target.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, target.String())
}
