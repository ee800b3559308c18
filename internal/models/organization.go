package models

import (
	"time"
)

// Organization is the tenant root. It owns every shop, merchant, catalog item and menu.
type Organization struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Shops              []Shop              `json:"shops,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Merchants          []Merchant          `json:"merchants,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Menus              []Menu              `json:"menus,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	MenuCategories     []MenuCategory      `json:"menuCategories,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	MenuProducts       []MenuProduct       `json:"menuProducts,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	MenuProductOptions []MenuProductOption `json:"menuProductOptions,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Sessions           []Session           `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	OAuthClients       []OAuthClient       `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// Session is a login issued to an organization. Its ID is the opaque cookie value.
type Session struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organizationId" gorm:"type:varchar(36);index;not null"`
	IP             string    `json:"ip"`
	ExpiresAt      time.Time `json:"expiresAt" gorm:"index"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Actor is the authenticated identity handed to the services.
type Actor struct {
	OrganizationID string `json:"organizationId"`
	SessionID      string `json:"sessionId,omitempty"`
}
