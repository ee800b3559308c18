package services

import (
	"context"
	"errors"
	"testing"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func summerMenu(c testutil.Catalog, productPrice string) *models.MenuSpec {
	return &models.MenuSpec{
		Name: "Summer Menu",
		Categories: []models.CategorySpec{{
			ID: c.Category.ID,
			Products: []models.ProductSpec{{
				ID:      c.Product.ID,
				Price:   price(productPrice),
				Options: []models.OptionSpec{{ID: c.Option.ID, Price: price("0.5")}},
			}},
		}},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func setupMenuService(t *testing.T) (*gorm.DB, MenuService, *models.Organization, testutil.Catalog) {
	t.Helper()
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "owner@example.com", "password123")
	return db, NewMenuService(db, nil), org, testutil.CreateCatalog(t, db, org.ID)
}

func TestBuildMenuRoundTrip(t *testing.T) {
	_, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)
	assert.Equal(t, "Summer Menu", menu.Name)
	assert.NotEmpty(t, menu.ID)

	view, err := svc.GetMenu(ctx, org.ID, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Menu", view.Name)
	require.Len(t, view.Categories, 1)

	category := view.Categories[0]
	assert.Equal(t, catalog.Category.ID, category.ID)
	assert.Equal(t, "Drinks", category.Name)
	require.Len(t, category.Products, 1)

	product := category.Products[0]
	assert.Equal(t, catalog.Product.ID, product.ID)
	assert.Equal(t, "Cola", product.Name)
	assert.Equal(t, "33cl can", product.Description)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("3.5")), "price = %s", product.Price)
	require.Len(t, product.Options, 1)

	option := product.Options[0]
	assert.Equal(t, catalog.Option.ID, option.ID)
	assert.Equal(t, "Ice", option.Name)
	assert.True(t, option.Price.Equal(decimal.RequireFromString("0.5")), "price = %s", option.Price)
}

func TestBuildMenuIsIdempotent(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)

	var before models.ProductLink
	require.NoError(t, db.Take(&before).Error)

	_, err = svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), menu.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, db, &models.Menu{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.CategoryLink{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.ProductLink{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.OptionLink{}))

	var after models.ProductLink
	require.NoError(t, db.Take(&after).Error)
	assert.Equal(t, before.ID, after.ID, "rebuild must reuse the existing link row")
}

func TestBuildMenuRebuildUpdatesPrice(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)
	_, err = svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.75"), menu.ID)
	require.NoError(t, err)

	var links []models.ProductLink
	require.NoError(t, db.Find(&links).Error)
	require.Len(t, links, 1)
	assert.True(t, links[0].Price.Equal(decimal.RequireFromString("3.75")))
}

func TestBuildMenuWithUnknownIDCreatesIt(t *testing.T) {
	_, svc, org, catalog := setupMenuService(t)
	id := uuid.NewString()

	menu, err := svc.BuildMenu(context.Background(), org.ID, summerMenu(catalog, "3.5"), id)
	require.NoError(t, err)
	assert.Equal(t, id, menu.ID)
	assert.Equal(t, org.ID, menu.OrganizationID)
}

func TestBuildMenuPriceIsolation(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	lunch := summerMenu(catalog, "3.5")
	lunch.Name = "Lunch"
	dinner := summerMenu(catalog, "5")
	dinner.Name = "Dinner"

	lunchMenu, err := svc.BuildMenu(ctx, org.ID, lunch, "")
	require.NoError(t, err)
	dinnerMenu, err := svc.BuildMenu(ctx, org.ID, dinner, "")
	require.NoError(t, err)

	assert.Equal(t, int64(2), countRows(t, db, &models.ProductLink{}))

	lunchView, err := svc.GetMenu(ctx, org.ID, lunchMenu.ID)
	require.NoError(t, err)
	dinnerView, err := svc.GetMenu(ctx, org.ID, dinnerMenu.ID)
	require.NoError(t, err)
	assert.True(t, lunchView.Categories[0].Products[0].Price.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, dinnerView.Categories[0].Products[0].Price.Equal(decimal.RequireFromString("5")))

	var product models.MenuProduct
	require.NoError(t, db.Take(&product, "id = ?", catalog.Product.ID).Error)
	assert.Equal(t, "Cola", product.Name)
	assert.Equal(t, catalog.Product.UpdatedAt.Unix(), product.UpdatedAt.Unix())
}

func TestBuildMenuTenantIsolation(t *testing.T) {
	db, svc, _, catalog := setupMenuService(t)
	intruder := testutil.CreateOrganization(t, db, "intruder@example.com", "password123")
	ctx := context.Background()

	_, err := svc.BuildMenu(ctx, intruder.ID, summerMenu(catalog, "3.5"), "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, int64(0), countRows(t, db, &models.Menu{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.CategoryLink{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.ProductLink{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.OptionLink{}))
}

func TestBuildMenuRejectsForeignMenuID(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)

	other := testutil.CreateOrganization(t, db, "other@example.com", "password123")
	_, err = svc.BuildMenu(ctx, other.ID, &models.MenuSpec{Name: "Hijack"}, menu.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var stored models.Menu
	require.NoError(t, db.Take(&stored, "id = ?", menu.ID).Error)
	assert.Equal(t, "Summer Menu", stored.Name)
}

func TestBuildMenuForeignShop(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	other := testutil.CreateOrganization(t, db, "other@example.com", "password123")
	shop := &models.Shop{ID: uuid.NewString(), OrganizationID: other.ID, Name: "Elsewhere"}
	require.NoError(t, db.Create(shop).Error)

	spec := summerMenu(catalog, "3.5")
	spec.ShopID = &shop.ID
	_, err := svc.BuildMenu(context.Background(), org.ID, spec, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuildMenuEmptyCategories(t *testing.T) {
	_, svc, org, _ := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, &models.MenuSpec{Name: "Empty"}, "")
	require.NoError(t, err)

	view, err := svc.GetMenu(ctx, org.ID, menu.ID)
	require.NoError(t, err)
	assert.NotNil(t, view.Categories)
	assert.Empty(t, view.Categories)
}

func TestBuildMenuValidation(t *testing.T) {
	_, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(spec *models.MenuSpec)
		menuID string
	}{
		{
			name:   "missing name",
			mutate: func(spec *models.MenuSpec) { spec.Name = "" },
		},
		{
			name:   "negative product price",
			mutate: func(spec *models.MenuSpec) { spec.Categories[0].Products[0].Price = price("-1") },
		},
		{
			name:   "missing option price",
			mutate: func(spec *models.MenuSpec) { spec.Categories[0].Products[0].Options[0].Price = decimal.NullDecimal{} },
		},
		{
			name:   "malformed category id",
			mutate: func(spec *models.MenuSpec) { spec.Categories[0].ID = "drinks" },
		},
		{
			name:   "malformed menu id",
			mutate: func(spec *models.MenuSpec) {},
			menuID: "not-a-uuid",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			spec := summerMenu(catalog, "3.5")
			tt.mutate(spec)
			_, err := svc.BuildMenu(ctx, org.ID, spec, tt.menuID)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBuildMenuZeroPriceIsValid(t *testing.T) {
	_, svc, org, catalog := setupMenuService(t)

	_, err := svc.BuildMenu(context.Background(), org.ID, summerMenu(catalog, "0"), "")
	assert.NoError(t, err)
}

func TestBuildMenuMergesDuplicateEntries(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	spec := summerMenu(catalog, "3.5")
	spec.Categories = append(spec.Categories, models.CategorySpec{
		ID:       catalog.Category.ID,
		Products: []models.ProductSpec{{ID: catalog.Product.ID, Price: price("4.25")}},
	})

	_, err := svc.BuildMenu(context.Background(), org.ID, spec, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, db, &models.CategoryLink{}))
	var links []models.ProductLink
	require.NoError(t, db.Find(&links).Error)
	require.Len(t, links, 1)
	assert.True(t, links[0].Price.Equal(decimal.RequireFromString("4.25")), "last declaration wins")
}

func TestReplaceMenu(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)

	replaced, err := svc.ReplaceMenu(ctx, org.ID, menu.ID, summerMenu(catalog, "4.0"))
	require.NoError(t, err)
	assert.Equal(t, menu.ID, replaced.ID)

	view, err := svc.GetMenu(ctx, org.ID, menu.ID)
	require.NoError(t, err)
	assert.True(t, view.Categories[0].Products[0].Price.Equal(decimal.RequireFromString("4.0")))

	var n int64
	require.NoError(t, db.Model(&models.ProductLink{}).
		Joins("JOIN category_links ON category_links.id = product_links.category_link_id").
		Where("category_links.menu_id = ? AND product_links.product_id = ?", menu.ID, catalog.Product.ID).
		Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(1), countRows(t, db, &models.OptionLink{}))
}

func TestReplaceMenuDropsRemovedEntries(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)

	_, err = svc.ReplaceMenu(ctx, org.ID, menu.ID, &models.MenuSpec{Name: "Winter Menu"})
	require.NoError(t, err)

	assert.Equal(t, int64(0), countRows(t, db, &models.CategoryLink{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.ProductLink{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.OptionLink{}))

	view, err := svc.GetMenu(ctx, org.ID, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, "Winter Menu", view.Name)
}

func TestReplaceMenuNotFound(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	_, err := svc.ReplaceMenu(ctx, org.ID, uuid.NewString(), summerMenu(catalog, "3.5"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), countRows(t, db, &models.Menu{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.CategoryLink{}))
}

func TestReplaceMenuOfAnotherOrganization(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)

	other := testutil.CreateOrganization(t, db, "other@example.com", "password123")
	_, err = svc.ReplaceMenu(ctx, other.ID, menu.ID, &models.MenuSpec{Name: "Hijack"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(1), countRows(t, db, &models.CategoryLink{}))
}

func TestReplaceMenuRollsBackOnFailure(t *testing.T) {
	testCases := []struct {
		name     string
		register func(db *gorm.DB) error
	}{
		{
			name: "failing discard",
			register: func(db *gorm.DB) error {
				return db.Callback().Delete().Before("gorm:delete").Register("test:fail_discard", func(tx *gorm.DB) {
					if tx.Statement.Table == "category_links" {
						tx.AddError(errors.New("simulated delete failure"))
					}
				})
			},
		},
		{
			name: "failing option link write",
			register: func(db *gorm.DB) error {
				return db.Callback().Create().Before("gorm:create").Register("test:fail_option", func(tx *gorm.DB) {
					if tx.Statement.Table == "option_links" {
						tx.AddError(errors.New("simulated create failure"))
					}
				})
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			db, svc, org, catalog := setupMenuService(t)
			ctx := context.Background()

			menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
			require.NoError(t, err)
			before, err := svc.GetMenu(ctx, org.ID, menu.ID)
			require.NoError(t, err)

			var linkBefore models.ProductLink
			require.NoError(t, db.Take(&linkBefore).Error)

			require.NoError(t, tt.register(db))

			replacement := summerMenu(catalog, "9.99")
			replacement.Name = "Broken Menu"
			_, err = svc.ReplaceMenu(ctx, org.ID, menu.ID, replacement)
			require.Error(t, err)

			after, err := svc.GetMenu(ctx, org.ID, menu.ID)
			require.NoError(t, err)
			assert.Equal(t, before, after)

			var linkAfter models.ProductLink
			require.NoError(t, db.Take(&linkAfter).Error)
			assert.Equal(t, linkBefore.ID, linkAfter.ID)
			assert.Equal(t, int64(1), countRows(t, db, &models.ProductLink{}))
		})
	}
}

func TestGetMenuScopedToOrganization(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)

	other := testutil.CreateOrganization(t, db, "other@example.com", "password123")
	_, err = svc.GetMenu(ctx, other.ID, menu.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetMenu(ctx, org.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMenuKeepsDeclarationOrder(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	desserts := &models.MenuCategory{ID: uuid.NewString(), OrganizationID: org.ID, Name: "Desserts"}
	require.NoError(t, db.Create(desserts).Error)

	spec := summerMenu(catalog, "3.5")
	spec.Categories = append([]models.CategorySpec{{ID: desserts.ID}}, spec.Categories...)

	menu, err := svc.BuildMenu(ctx, org.ID, spec, "")
	require.NoError(t, err)

	view, err := svc.GetMenu(ctx, org.ID, menu.ID)
	require.NoError(t, err)
	require.Len(t, view.Categories, 2)
	assert.Equal(t, "Desserts", view.Categories[0].Name)
	assert.Equal(t, "Drinks", view.Categories[1].Name)
	assert.Empty(t, view.Categories[0].Products)
}

func TestListMenus(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	_, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)
	_, err = svc.BuildMenu(ctx, org.ID, &models.MenuSpec{Name: "Brunch"}, "")
	require.NoError(t, err)

	other := testutil.CreateOrganization(t, db, "other@example.com", "password123")
	_, err = svc.BuildMenu(ctx, other.ID, &models.MenuSpec{Name: "Not mine"}, "")
	require.NoError(t, err)

	menus, err := svc.ListMenus(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, menus, 2)
	names := []string{menus[0].Name, menus[1].Name}
	assert.ElementsMatch(t, []string{"Summer Menu", "Brunch"}, names)

	empty, err := svc.ListMenus(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDeleteMenuCascadesLinksOnly(t *testing.T) {
	db, svc, org, catalog := setupMenuService(t)
	ctx := context.Background()

	menu, err := svc.BuildMenu(ctx, org.ID, summerMenu(catalog, "3.5"), "")
	require.NoError(t, err)

	deleted, err := svc.DeleteMenu(ctx, org.ID, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, menu.ID, deleted.ID)

	assert.Equal(t, int64(0), countRows(t, db, &models.Menu{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.CategoryLink{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.ProductLink{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.OptionLink{}))

	assert.Equal(t, int64(1), countRows(t, db, &models.MenuCategory{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.MenuProduct{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.MenuProductOption{}))

	_, err = svc.DeleteMenu(ctx, org.ID, menu.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
