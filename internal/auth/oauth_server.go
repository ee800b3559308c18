package auth

import (
	"time"

	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Authorization codes are short lived, access tokens last a working day
var (
	codeTokenConfig = &manage.Config{
		AccessTokenExp:    8 * time.Hour,
		RefreshTokenExp:   72 * time.Hour,
		IsGenerateRefresh: true,
	}
	clientTokenConfig = &manage.Config{AccessTokenExp: 8 * time.Hour}
)

type OAuthService struct {
	server *server.Server
	db     *gorm.DB
}

func NewOAuthService(db *gorm.DB, jwtSecret string) *OAuthService {
	manager := manage.NewDefaultManager()
	manager.SetAuthorizeCodeTokenCfg(codeTokenConfig)
	manager.SetClientTokenCfg(clientTokenConfig)

	// Access tokens are JWTs carrying the owning organization
	manager.MapAccessGenerate(NewCustomJWTAccessGenerate([]byte(jwtSecret), jwt.SigningMethodHS512, db))

	// Configure token store
	tokenStore := NewGormTokenStore(db)
	manager.MustTokenStorage(tokenStore, nil)

	// Configure client store
	clientStore := NewGormClientStore(db)
	manager.MapClientStorage(clientStore)

	srv := server.NewDefaultServer(manager)
	srv.SetAllowGetAccessRequest(false)
	srv.SetClientInfoHandler(server.ClientFormHandler)

	return &OAuthService{
		server: srv,
		db:     db,
	}
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}
