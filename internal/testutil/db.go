// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/franciscosanchezn/gin-menu-api/internal/database"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database with foreign keys enforced.
// A single connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateOrganization inserts an organization with the given email and password
func CreateOrganization(t *testing.T, db *gorm.DB, email, password string) *models.Organization {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	org := &models.Organization{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.Create(org).Error)
	return org
}

// Catalog is a category, product and option owned by one organization
type Catalog struct {
	Category *models.MenuCategory
	Product  *models.MenuProduct
	Option   *models.MenuProductOption
}

// CreateCatalog inserts the "Drinks" / "Cola" / "Ice" catalog for orgID
func CreateCatalog(t *testing.T, db *gorm.DB, orgID string) Catalog {
	t.Helper()

	c := Catalog{
		Category: &models.MenuCategory{ID: uuid.NewString(), OrganizationID: orgID, Name: "Drinks"},
		Product:  &models.MenuProduct{ID: uuid.NewString(), OrganizationID: orgID, Name: "Cola", Description: "33cl can"},
		Option:   &models.MenuProductOption{ID: uuid.NewString(), OrganizationID: orgID, Name: "Ice"},
	}
	require.NoError(t, db.Create(c.Category).Error)
	require.NoError(t, db.Create(c.Product).Error)
	require.NoError(t, db.Create(c.Option).Error)
	return c
}
