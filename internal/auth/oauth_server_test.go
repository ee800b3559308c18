package auth

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/testutil"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret-key-32-characters"

// createClient stores a client owned by orgID whose plain secret is "test_secret"
func createClient(t *testing.T, db *gorm.DB, orgID, grantTypes string) *models.OAuthClient {
	t.Helper()

	hashedSecret, err := bcrypt.GenerateFromPassword([]byte("test_secret"), bcrypt.MinCost)
	require.NoError(t, err)

	client := &models.OAuthClient{
		ID:             "test_client",
		Secret:         string(hashedSecret),
		Name:           "POS terminal",
		Domain:         "https://pos.example.com",
		OrganizationID: orgID,
		Scopes:         "read write",
		GrantTypes:     grantTypes,
		RedirectURI:    "https://pos.example.com/callback",
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// parseClaims verifies the signature of access and returns its claims
func parseClaims(t *testing.T, access string) jwt.MapClaims {
	t.Helper()

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(access, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestOAuthServerInitialization(t *testing.T) {
	db := testutil.NewDB(t)

	oauthService := NewOAuthService(db, testJWTSecret)
	assert.NotNil(t, oauthService)
	assert.NotNil(t, oauthService.GetServer())
}

func TestJWTTokenGeneration(t *testing.T) {
	db := testutil.NewDB(t)
	oauthService := NewOAuthService(db, testJWTSecret)

	org := testutil.CreateOrganization(t, db, "owner@example.com", "password123")
	createClient(t, db, org.ID, "client_credentials")

	tokenInfo, err := oauthService.GetServer().Manager.GenerateAccessToken(context.Background(), oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     "test_client",
		ClientSecret: "test_secret",
		Scope:        "read",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokenInfo.GetAccess())

	claims := parseClaims(t, tokenInfo.GetAccess())
	assert.Equal(t, org.ID, claims["oid"])
	assert.Equal(t, "read", claims["scope"])
	assert.Equal(t, "test_client", claims["aud"])

	var stored models.OAuthToken
	require.NoError(t, db.Where("access_token = ?", tokenInfo.GetAccess()).Take(&stored).Error)
	assert.Equal(t, "test_client", stored.ClientID)
}

func TestJWTTokenGenerationRejectsDeletedOrganization(t *testing.T) {
	db := testutil.NewDB(t)
	oauthService := NewOAuthService(db, testJWTSecret)

	org := testutil.CreateOrganization(t, db, "gone@example.com", "password123")
	createClient(t, db, org.ID, "client_credentials")

	// Drop the organization row only, the client survives
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec("DELETE FROM organizations WHERE id = ?", org.ID).Error)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	_, err := oauthService.GetServer().Manager.GenerateAccessToken(context.Background(), oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     "test_client",
		ClientSecret: "test_secret",
	})
	assert.Error(t, err)
}

func TestClientStoreIntegration(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "store@example.com", "password123")
	createClient(t, db, org.ID, "client_credentials")

	clientStore := NewGormClientStore(db)

	retrievedClient, err := clientStore.GetByID(context.Background(), "test_client")
	require.NoError(t, err)
	assert.Equal(t, org.ID, retrievedClient.GetUserID())

	verifier, ok := retrievedClient.(oauth2.ClientPasswordVerifier)
	require.True(t, ok)
	assert.True(t, verifier.VerifyPassword("test_secret"))
	assert.False(t, verifier.VerifyPassword("wrong_secret"))

	_, err = clientStore.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTokenStoreCodeLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "codes@example.com", "password123")
	createClient(t, db, org.ID, "authorization_code")
	store := NewGormTokenStore(db)
	ctx := context.Background()

	code := &models.OAuthCode{
		Code:           "abc",
		ClientID:       "test_client",
		OrganizationID: org.ID,
		Scopes:         "read",
	}
	code.CreatedAt = db.NowFunc()
	code.ExpiresAt = code.CreatedAt.Add(codeLifetime)
	require.NoError(t, db.Create(code).Error)

	info, err := store.GetByCode(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, org.ID, info.GetUserID())
	assert.Equal(t, "read", info.GetScope())

	require.NoError(t, store.RemoveByCode(ctx, "abc"))
	_, err = store.GetByCode(ctx, "abc")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTokenStoreExpiredCode(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "stale@example.com", "password123")
	createClient(t, db, org.ID, "authorization_code")

	now := db.NowFunc()
	require.NoError(t, db.Create(&models.OAuthCode{
		Code:           "stale",
		ClientID:       "test_client",
		OrganizationID: org.ID,
		CreatedAt:      now.Add(-2 * codeLifetime),
		ExpiresAt:      now.Add(-codeLifetime),
	}).Error)

	_, err := NewGormTokenStore(db).GetByCode(context.Background(), "stale")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
