package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MenuService builds, replaces and reads menu graphs scoped to one organization
type MenuService interface {
	// BuildMenu links the spec's categories, products and options under a menu.
	// An empty menuID creates a new menu; an existing one is rebuilt in place.
	BuildMenu(ctx context.Context, orgID string, spec *models.MenuSpec, menuID string) (*models.Menu, error)
	// ReplaceMenu discards the menu's link tree and writes the spec's tree in one transaction
	ReplaceMenu(ctx context.Context, orgID, menuID string, spec *models.MenuSpec) (*models.Menu, error)
	// GetMenu returns the flattened view of a menu
	GetMenu(ctx context.Context, orgID, menuID string) (*models.MenuView, error)
	// ListMenus returns id and name of every menu of the organization
	ListMenus(ctx context.Context, orgID string) ([]models.MenuSummary, error)
	// DeleteMenu removes a menu and its links. Catalog rows are kept.
	DeleteMenu(ctx context.Context, orgID, menuID string) (*models.Menu, error)
}

type menuService struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewMenuService creates a new instance of MenuService
func NewMenuService(db *gorm.DB, validate *validator.Validate) MenuService {
	if validate == nil {
		validate = NewValidator()
	}
	return &menuService{db: db, validate: validate}
}

func (s *menuService) BuildMenu(ctx context.Context, orgID string, spec *models.MenuSpec, menuID string) (*models.Menu, error) {
	if err := s.checkSpec(spec, menuID); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, orgID, spec); err != nil {
		return nil, err
	}

	var menu models.Menu
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if menuID == "" {
			menu = models.Menu{ID: uuid.NewString(), OrganizationID: orgID, Name: spec.Name, ShopID: spec.ShopID}
			if err := tx.Omit(clause.Associations).Create(&menu).Error; err != nil {
				return err
			}
			return writeGraph(tx, menu.ID, spec)
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", menuID).Take(&menu).Error
		switch {
		case err == nil:
			// ids are global, a menu of another organization is reported as missing
			if menu.OrganizationID != orgID {
				return fmt.Errorf("%w: menu %s", ErrNotFound, menuID)
			}
			menu.Name, menu.ShopID = spec.Name, spec.ShopID
			if err := tx.Model(&menu).Select("name", "shop_id", "updated_at").Updates(&menu).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			menu = models.Menu{ID: menuID, OrganizationID: orgID, Name: spec.Name, ShopID: spec.ShopID}
			if err := tx.Omit(clause.Associations).Create(&menu).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return writeGraph(tx, menu.ID, spec)
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}

	log.WithFields(log.Fields{
		"organization_id": orgID,
		"menu_id":         menu.ID,
		"categories":      len(spec.Categories),
	}).Info("Menu built")
	return &menu, nil
}

func (s *menuService) ReplaceMenu(ctx context.Context, orgID, menuID string, spec *models.MenuSpec) (*models.Menu, error) {
	if menuID == "" {
		return nil, fmt.Errorf("%w: menu id is required", ErrValidation)
	}
	if err := s.checkSpec(spec, menuID); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, orgID, spec); err != nil {
		return nil, err
	}

	var menu models.Menu
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the menu. The row lock serializes concurrent replaces of the same menu.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND organization_id = ?", menuID, orgID).
			Take(&menu).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: menu %s", ErrNotFound, menuID)
		}
		if err != nil {
			return err
		}

		menu.Name, menu.ShopID = spec.Name, spec.ShopID
		if err := tx.Model(&menu).Select("name", "shop_id", "updated_at").Updates(&menu).Error; err != nil {
			return err
		}

		// Product and option links go with their category link through ON DELETE CASCADE
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.CategoryLink{}).Error; err != nil {
			return err
		}

		return writeGraph(tx, menu.ID, spec)
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}

	log.WithFields(log.Fields{
		"organization_id": orgID,
		"menu_id":         menu.ID,
		"categories":      len(spec.Categories),
	}).Info("Menu replaced")
	return &menu, nil
}

func (s *menuService) GetMenu(ctx context.Context, orgID, menuID string) (*models.MenuView, error) {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position") }

	var menu models.Menu
	err := s.db.WithContext(ctx).
		Preload("CategoryLinks", byPosition).
		Preload("CategoryLinks.Category").
		Preload("CategoryLinks.ProductLinks", byPosition).
		Preload("CategoryLinks.ProductLinks.Product").
		Preload("CategoryLinks.ProductLinks.OptionLinks", byPosition).
		Preload("CategoryLinks.ProductLinks.OptionLinks.Option").
		Where("id = ? AND organization_id = ?", menuID, orgID).
		Take(&menu).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return projectMenu(&menu), nil
}

func (s *menuService) ListMenus(ctx context.Context, orgID string) ([]models.MenuSummary, error) {
	menus := make([]models.MenuSummary, 0)
	err := s.db.WithContext(ctx).Model(&models.Menu{}).
		Where("organization_id = ?", orgID).
		Order("created_at").
		Find(&menus).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return menus, nil
}

func (s *menuService) DeleteMenu(ctx context.Context, orgID, menuID string) (*models.Menu, error) {
	var menu models.Menu
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND organization_id = ?", menuID, orgID).Take(&menu).Error; err != nil {
			return err
		}
		return tx.Delete(&menu).Error
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}

	log.WithFields(log.Fields{"organization_id": orgID, "menu_id": menuID}).Info("Menu deleted")
	return &menu, nil
}

func (s *menuService) checkSpec(spec *models.MenuSpec, menuID string) error {
	if spec == nil {
		return fmt.Errorf("%w: menu spec is required", ErrValidation)
	}
	if menuID != "" {
		if _, err := uuid.Parse(menuID); err != nil {
			return fmt.Errorf("%w: menu id: %v", ErrValidation, err)
		}
	}
	return validateStruct(s.validate, spec)
}

// checkOwnership verifies that every catalog id and the shop referenced by spec belong to orgID.
// The four lookups are independent and run concurrently.
func (s *menuService) checkOwnership(ctx context.Context, orgID string, spec *models.MenuSpec) error {
	refs := collectRefs(spec)
	g, gctx := errgroup.WithContext(ctx)

	owned := func(model interface{}, kind string, ids []string) {
		if len(ids) == 0 {
			return
		}
		g.Go(func() error {
			var found []string
			err := s.db.WithContext(gctx).Model(model).
				Where("organization_id = ? AND id IN ?", orgID, ids).
				Pluck("id", &found).Error
			if err != nil {
				return classifyStoreError(err)
			}
			if len(found) != len(ids) {
				return fmt.Errorf("%w: %s not accessible", ErrNotFound, kind)
			}
			return nil
		})
	}

	owned(&models.MenuCategory{}, "category", refs.categories)
	owned(&models.MenuProduct{}, "product", refs.products)
	owned(&models.MenuProductOption{}, "option", refs.options)
	if spec.ShopID != nil {
		owned(&models.Shop{}, "shop", []string{*spec.ShopID})
	}

	return g.Wait()
}

type specRefs struct {
	categories []string
	products   []string
	options    []string
}

// collectRefs returns the distinct catalog ids referenced by spec
func collectRefs(spec *models.MenuSpec) specRefs {
	var refs specRefs
	seen := make(map[string]bool)
	add := func(dst *[]string, id string) {
		if !seen[id] {
			seen[id] = true
			*dst = append(*dst, id)
		}
	}
	for _, c := range spec.Categories {
		add(&refs.categories, c.ID)
		for _, p := range c.Products {
			add(&refs.products, p.ID)
			for _, o := range p.Options {
				add(&refs.options, o.ID)
			}
		}
	}
	return refs
}

// writeGraph upserts the three link levels in declaration order. Positions are the indexes within spec.
func writeGraph(tx *gorm.DB, menuID string, spec *models.MenuSpec) error {
	for ci, c := range spec.Categories {
		categoryLink := &models.CategoryLink{MenuID: menuID, CategoryID: c.ID, Position: ci}
		if err := upsertLink(tx, categoryLink, "position"); err != nil {
			return err
		}

		for pi, p := range c.Products {
			productLink := &models.ProductLink{
				CategoryLinkID: categoryLink.ID,
				ProductID:      p.ID,
				Price:          p.Price.Decimal,
				Position:       pi,
			}
			if err := upsertLink(tx, productLink, "price", "position"); err != nil {
				return err
			}

			for oi, o := range p.Options {
				optionLink := &models.OptionLink{
					ProductLinkID: productLink.ID,
					OptionID:      o.ID,
					Price:         o.Price.Decimal,
					Position:      oi,
				}
				if err := upsertLink(tx, optionLink, "price", "position"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
