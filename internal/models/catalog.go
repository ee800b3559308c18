package models

import (
	"time"
)

// Owned is implemented by every record scoped to a single organization.
type Owned interface {
	SetID(id string)
	SetOrganizationID(orgID string)
}

// MenuCategory is a reusable catalog category. It carries no price of its own.
type MenuCategory struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organizationId" gorm:"type:varchar(36);index;not null"`
	Name           string    `json:"name" binding:"required" gorm:"not null"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (c *MenuCategory) SetID(id string)                { c.ID = id }
func (c *MenuCategory) SetOrganizationID(orgID string) { c.OrganizationID = orgID }

// MenuProduct is a reusable catalog product. Its price is set per menu on ProductLink.
type MenuProduct struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organizationId" gorm:"type:varchar(36);index;not null"`
	Name           string    `json:"name" binding:"required" gorm:"not null"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p *MenuProduct) SetID(id string)                { p.ID = id }
func (p *MenuProduct) SetOrganizationID(orgID string) { p.OrganizationID = orgID }

// MenuProductOption is a reusable add-on. Its price is set per menu on OptionLink.
type MenuProductOption struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organizationId" gorm:"type:varchar(36);index;not null"`
	Name           string    `json:"name" binding:"required_without=Description"`
	Description    string    `json:"description" binding:"required_without=Name"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (o *MenuProductOption) SetID(id string)                { o.ID = id }
func (o *MenuProductOption) SetOrganizationID(orgID string) { o.OrganizationID = orgID }
