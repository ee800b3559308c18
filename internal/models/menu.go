package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Menu is a named composition. Its content lives entirely in link rows.
type Menu struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organizationId" gorm:"type:varchar(36);index;not null"`
	Name           string    `json:"name" gorm:"not null"`
	ShopID         *string   `json:"shopId" gorm:"type:varchar(36);index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Shop          *Shop          `json:"-" gorm:"foreignKey:ShopID;constraint:OnDelete:SET NULL"`
	CategoryLinks []CategoryLink `json:"-" gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
}

// MenuSummary is the list projection returned by GET /menu.
type MenuSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Link is a join row identified by a natural key made of foreign keys.
type Link interface {
	GetID() string
	SetID(id string)
	NaturalKey() map[string]interface{}
}

// CategoryLink attaches a catalog category to a menu.
type CategoryLink struct {
	ID         string `gorm:"type:varchar(36);primaryKey"`
	MenuID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_category_links_natural_key"`
	CategoryID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_category_links_natural_key"`
	Position   int

	Category     MenuCategory  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	ProductLinks []ProductLink `gorm:"foreignKey:CategoryLinkID;constraint:OnDelete:CASCADE"`
}

func (l *CategoryLink) GetID() string   { return l.ID }
func (l *CategoryLink) SetID(id string) { l.ID = id }
func (l *CategoryLink) NaturalKey() map[string]interface{} {
	return map[string]interface{}{"menu_id": l.MenuID, "category_id": l.CategoryID}
}

// ProductLink attaches a product under a category link with a menu-specific price.
type ProductLink struct {
	ID             string          `gorm:"type:varchar(36);primaryKey"`
	CategoryLinkID string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_product_links_natural_key"`
	ProductID      string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_product_links_natural_key"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Position       int

	Product     MenuProduct  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OptionLinks []OptionLink `gorm:"foreignKey:ProductLinkID;constraint:OnDelete:CASCADE"`
}

func (l *ProductLink) GetID() string   { return l.ID }
func (l *ProductLink) SetID(id string) { l.ID = id }
func (l *ProductLink) NaturalKey() map[string]interface{} {
	return map[string]interface{}{"category_link_id": l.CategoryLinkID, "product_id": l.ProductID}
}

// OptionLink attaches an option under a product link with a menu-specific price.
type OptionLink struct {
	ID            string          `gorm:"type:varchar(36);primaryKey"`
	ProductLinkID string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_option_links_natural_key"`
	OptionID      string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_option_links_natural_key"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Position      int

	Option MenuProductOption `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE"`
}

func (l *OptionLink) GetID() string   { return l.ID }
func (l *OptionLink) SetID(id string) { l.ID = id }
func (l *OptionLink) NaturalKey() map[string]interface{} {
	return map[string]interface{}{"product_link_id": l.ProductLinkID, "option_id": l.OptionID}
}

// MenuSpec is the declarative tree accepted by POST /menu and PUT /menu/:menuId.
type MenuSpec struct {
	Name       string         `json:"name" binding:"required,max=255"`
	ShopID     *string        `json:"shopId,omitempty" binding:"omitempty,uuid"`
	Categories []CategorySpec `json:"categories" binding:"dive"`
}

type CategorySpec struct {
	ID       string        `json:"id" binding:"required,uuid"`
	Products []ProductSpec `json:"products" binding:"dive"`
}

type ProductSpec struct {
	ID      string              `json:"id" binding:"required,uuid"`
	Price   decimal.NullDecimal `json:"price" binding:"gte=0"`
	Options []OptionSpec        `json:"options" binding:"dive"`
}

type OptionSpec struct {
	ID    string              `json:"id" binding:"required,uuid"`
	Price decimal.NullDecimal `json:"price" binding:"gte=0"`
}

// MenuView is the denormalized read model of a menu.
type MenuView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	ShopID     *string        `json:"shopId"`
	Categories []CategoryView `json:"categories"`
}

type CategoryView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Products []ProductView `json:"products"`
}

type ProductView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Options     []OptionView    `json:"options"`
}

type OptionView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}
