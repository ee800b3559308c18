package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oauth2errors "github.com/go-oauth2/oauth2/v4/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HandleToken handles the token endpoint for both client credentials and authorization code grants
// @Summary Token Endpoint
// @Description Obtain an access token using client credentials or authorization code grant
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type: client_credentials or authorization_code"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param scope formData string false "Space separated scopes, defaults to every scope of the client"
// @Param code formData string false "Authorization code (required for authorization_code grant)"
// @Param redirect_uri formData string false "Redirect URI (required for authorization_code grant)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	grantType := oauth2.GrantType(c.PostForm("grant_type"))
	clientID := c.PostForm("client_id")

	switch grantType {
	case oauth2.ClientCredentials, oauth2.AuthorizationCode:
	default:
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType, "supported grants: client_credentials, authorization_code"))
		return
	}

	var client models.OAuthClient
	if err := o.db.WithContext(c.Request.Context()).Where("id = ?", clientID).Take(&client).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).Error("Failed to load OAuth client")
		}
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidClient, ""))
		return
	}

	if !containsField(client.GrantTypes, string(grantType)) {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnauthorizedClient, "grant type not allowed for this client"))
		return
	}

	tgr := &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: c.PostForm("client_secret"),
		Request:      c.Request,
	}

	if grantType == oauth2.ClientCredentials {
		scope, ok := resolveScope(c.PostForm("scope"), client.Scopes)
		if !ok {
			c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidScope, "requested scope exceeds the client's scopes"))
			return
		}
		tgr.Scope = scope
	} else {
		// scope and organization come from the code
		tgr.Code = c.PostForm("code")
		tgr.RedirectURI = c.PostForm("redirect_uri")
		tgr.CodeVerifier = c.PostForm("code_verifier")
	}

	ti, err := o.server.Manager.GenerateAccessToken(c.Request.Context(), grantType, tgr)
	if err != nil {
		o.respondTokenError(c, err)
		return
	}

	response := gin.H{
		"access_token": ti.GetAccess(),
		"token_type":   "Bearer",
		"expires_in":   int64(ti.GetAccessExpiresIn().Seconds()),
		"scope":        ti.GetScope(),
	}
	if refresh := ti.GetRefresh(); refresh != "" {
		response["refresh_token"] = refresh
	}

	log.WithFields(log.Fields{
		"client_id":  clientID,
		"grant_type": grantType,
	}).Info("Access token issued")
	c.JSON(http.StatusOK, response)
}

func (o *OAuthService) respondTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, oauth2errors.ErrInvalidClient):
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidClient, ""))
	case errors.Is(err, oauth2errors.ErrInvalidAuthorizeCode),
		errors.Is(err, oauth2errors.ErrInvalidCodeChallenge),
		errors.Is(err, oauth2errors.ErrMissingCodeVerifier),
		errors.Is(err, oauth2errors.ErrInvalidRedirectURI),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidGrant, ""))
	default:
		log.WithError(err).Error("Access token generation failed")
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error", "token generation failed"))
	}
}

// resolveScope returns requested when every scope in it is allowed, or allowed when nothing is requested
func resolveScope(requested, allowed string) (string, bool) {
	if strings.TrimSpace(requested) == "" {
		return allowed, true
	}
	for _, scope := range strings.Fields(requested) {
		if !containsField(allowed, scope) {
			return "", false
		}
	}
	return strings.Join(strings.Fields(requested), " "), true
}

// containsField reports whether value is one of the space or comma separated fields of list
func containsField(list, value string) bool {
	fields := strings.FieldsFunc(list, func(r rune) bool { return r == ' ' || r == ',' })
	for _, f := range fields {
		if f == value {
			return true
		}
	}
	return false
}
