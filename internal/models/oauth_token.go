package models

import (
	"time"
)

type OAuthToken struct {
	ID             uint    `gorm:"primaryKey"`
	ClientID       string  `gorm:"not null;index"`
	OrganizationID *string // Nullable when the client has no owner yet
	AccessToken    string  `gorm:"uniqueIndex;not null"`
	RefreshToken   *string `gorm:"index"`
	Scopes         string
	ExpiresAt      time.Time `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
