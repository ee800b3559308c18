package models

import (
	"time"
)

// Shop is a physical point of sale run by an organization.
type Shop struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organizationId" gorm:"type:varchar(36);index;not null"`
	Name           string    `json:"name" binding:"required" gorm:"not null"`
	Description    string    `json:"description" binding:"required"`
	Siret          string    `json:"siret" binding:"required"`
	AddressLine    string    `json:"address_line" binding:"required"`
	AddressLine2   string    `json:"address_line_2"`
	City           string    `json:"city" binding:"required"`
	State          string    `json:"state" binding:"required"`
	Zip            string    `json:"zip" binding:"required"`
	Country        string    `json:"country" binding:"required"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (s *Shop) SetID(id string)                { s.ID = id }
func (s *Shop) SetOrganizationID(orgID string) { s.OrganizationID = orgID }

// Merchant is the legal entity operating shops for an organization.
type Merchant struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organizationId" gorm:"type:varchar(36);index;not null"`
	Name           string    `json:"name" binding:"required" gorm:"not null"`
	Description    string    `json:"description"`
	Siret          string    `json:"siret" binding:"required"`
	AddressLine    string    `json:"address_line" binding:"required"`
	AddressLine2   string    `json:"address_line_2"`
	City           string    `json:"city" binding:"required"`
	State          string    `json:"state"`
	Zip            string    `json:"zip" binding:"required"`
	Country        string    `json:"country" binding:"required"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (m *Merchant) SetID(id string)                { m.ID = id }
func (m *Merchant) SetOrganizationID(orgID string) { m.OrganizationID = orgID }
