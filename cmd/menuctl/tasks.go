package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-menu-api/internal/cache"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedResult struct {
	OrganizationID string
	MenuID         string
}

// seedDemo registers the demo organization unless it exists and builds a "Summer Menu" for it
func seedDemo(ctx context.Context, db *gorm.DB, email, password string) (*seedResult, error) {
	organizations := services.NewOrganizationService(db, cache.NewMemory(), bcrypt.DefaultCost, 0)

	org, err := organizations.Register(ctx, email, password)
	if errors.Is(err, services.ErrEmailInUse) {
		return nil, fmt.Errorf("organization %s already exists, nothing to seed", email)
	}
	if err != nil {
		return nil, err
	}

	validate := services.NewValidator()
	categories := services.NewScopedService[models.MenuCategory](db, validate)
	products := services.NewScopedService[models.MenuProduct](db, validate)
	options := services.NewScopedService[models.MenuProductOption](db, validate)

	drinks, err := categories.Create(ctx, org.ID, &models.MenuCategory{Name: "Drinks"})
	if err != nil {
		return nil, err
	}
	mains, err := categories.Create(ctx, org.ID, &models.MenuCategory{Name: "Mains"})
	if err != nil {
		return nil, err
	}

	lemonade, err := products.Create(ctx, org.ID, &models.MenuProduct{Name: "Lemonade", Description: "Fresh squeezed"})
	if err != nil {
		return nil, err
	}
	margherita, err := products.Create(ctx, org.ID, &models.MenuProduct{Name: "Margherita", Description: "Tomato, mozzarella, basil"})
	if err != nil {
		return nil, err
	}

	ice, err := options.Create(ctx, org.ID, &models.MenuProductOption{Name: "Ice"})
	if err != nil {
		return nil, err
	}
	cheese, err := options.Create(ctx, org.ID, &models.MenuProductOption{Name: "Extra cheese"})
	if err != nil {
		return nil, err
	}

	spec := &models.MenuSpec{
		Name: "Summer Menu",
		Categories: []models.CategorySpec{
			{
				ID: drinks.ID,
				Products: []models.ProductSpec{{
					ID:      lemonade.ID,
					Price:   price("3.50"),
					Options: []models.OptionSpec{{ID: ice.ID, Price: price("0")}},
				}},
			},
			{
				ID: mains.ID,
				Products: []models.ProductSpec{{
					ID:      margherita.ID,
					Price:   price("9.90"),
					Options: []models.OptionSpec{{ID: cheese.ID, Price: price("1.50")}},
				}},
			},
		},
	}

	menu, err := services.NewMenuService(db, validate).BuildMenu(ctx, org.ID, spec, "")
	if err != nil {
		return nil, err
	}
	return &seedResult{OrganizationID: org.ID, MenuID: menu.ID}, nil
}

func price(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

type clientOptions struct {
	Email       string
	Name        string
	Scopes      string
	GrantTypes  string
	RedirectURI string
}

type clientCredentials struct {
	ID     string
	Secret string
}

// createClient registers an OAuth2 client for the organization owning opts.Email
func createClient(ctx context.Context, db *gorm.DB, opts clientOptions) (*clientCredentials, error) {
	var org models.Organization
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(opts.Email))).Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no organization registered with email %s", opts.Email)
	}
	if err != nil {
		return nil, err
	}

	client, secret, err := services.NewClientService(db, bcrypt.DefaultCost).CreateClient(ctx, org.ID, services.ClientRequest{
		Name:        opts.Name,
		Scopes:      opts.Scopes,
		GrantTypes:  opts.GrantTypes,
		RedirectURI: opts.RedirectURI,
	})
	if err != nil {
		return nil, err
	}
	return &clientCredentials{ID: client.ID, Secret: secret}, nil
}
