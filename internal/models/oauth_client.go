package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// OAuthClient is an API client owned by an organization. Tokens issued to it act on
// behalf of that organization.
type OAuthClient struct {
	ID             string    `json:"client_id" gorm:"type:varchar(36);primaryKey"`
	Secret         string    `json:"-" gorm:"not null"`
	Name           string    `json:"name"`
	Domain         string    `json:"domain"`
	OrganizationID string    `json:"organization_id" gorm:"type:varchar(36);index;not null"`
	Scopes         string    `json:"scopes"`      // Space-separated list of allowed scopes
	GrantTypes     string    `json:"grant_types"` // Space-separated list: "authorization_code client_credentials"
	RedirectURI    string    `json:"redirect_uri"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// GetID implements oauth2.ClientInfo
func (c *OAuthClient) GetID() string { return c.ID }

// GetSecret implements oauth2.ClientInfo
func (c *OAuthClient) GetSecret() string { return c.Secret }

// GetDomain implements oauth2.ClientInfo
func (c *OAuthClient) GetDomain() string { return c.Domain }

// IsPublic implements oauth2.ClientInfo
func (c *OAuthClient) IsPublic() bool { return false }

// GetUserID implements oauth2.ClientInfo. The "user" of a client is its organization.
func (c *OAuthClient) GetUserID() string { return c.OrganizationID }

// VerifyPassword implements oauth2.ClientPasswordVerifier against the stored bcrypt hash
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}
