package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret-key-32-characters")

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(orgID string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"aud":   "test_client",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"oid":   orgID,
		"scope": "read write",
	}
}

// echoRouter returns the context values set by the middleware under test
func echoRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"organizationID": c.GetString(OrganizationIDKey),
			"sessionID":      c.GetString(SessionIDKey),
			"scopes":         c.GetString(ScopesKey),
			"authType":       c.GetString(AuthTypeKey),
			"clientID":       c.GetString("clientID"),
		})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOAuth2AuthValidToken(t *testing.T) {
	orgID := uuid.NewString()
	router := echoRouter(OAuth2Auth(testSecret))

	token := signToken(t, validClaims(orgID), jwt.SigningMethodHS512, testSecret)
	w := doRequest(router, http.Header{"Authorization": {"Bearer " + token}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, orgID, body["organizationID"])
	assert.Equal(t, "read write", body["scopes"])
	assert.Equal(t, AuthTypeOAuth2, body["authType"])
	assert.Equal(t, "test_client", body["clientID"])
}

func TestOAuth2AuthRejections(t *testing.T) {
	orgID := uuid.NewString()

	expired := validClaims(orgID)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	future := validClaims(orgID)
	future["iat"] = time.Now().Add(time.Hour).Unix()

	missingOID := validClaims(orgID)
	delete(missingOID, "oid")

	numericOID := validClaims(orgID)
	numericOID["oid"] = "42"

	testCases := []struct {
		name          string
		header        string
		expectedError string
	}{
		{name: "missing header", header: "", expectedError: "authorization_required"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", expectedError: "invalid_request"},
		{name: "empty bearer", header: "Bearer ", expectedError: "invalid_token"},
		{name: "garbage", header: "Bearer not.a.jwt", expectedError: "invalid_token"},
		{name: "wrong key", header: "Bearer " + signToken(t, validClaims(orgID), jwt.SigningMethodHS512, []byte("another-secret")), expectedError: "invalid_token"},
		{name: "expired", header: "Bearer " + signToken(t, expired, jwt.SigningMethodHS512, testSecret), expectedError: "invalid_token"},
		{name: "issued in the future", header: "Bearer " + signToken(t, future, jwt.SigningMethodHS512, testSecret), expectedError: "invalid_token"},
		{name: "missing oid", header: "Bearer " + signToken(t, missingOID, jwt.SigningMethodHS512, testSecret), expectedError: "invalid_token"},
		{name: "oid not a uuid", header: "Bearer " + signToken(t, numericOID, jwt.SigningMethodHS512, testSecret), expectedError: "invalid_token"},
		{name: "alg none", header: "Bearer " + signToken(t, validClaims(orgID), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType), expectedError: "invalid_token"},
	}

	router := echoRouter(OAuth2Auth(testSecret))
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			w := doRequest(router, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.expectedError, decode(t, w)["error"])
		})
	}
}
