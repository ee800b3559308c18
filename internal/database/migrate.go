package database

import (
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in no particular order.
// gorm sorts them by foreign key dependency during AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&models.Organization{},
		&models.Session{},
		&models.Shop{},
		&models.Merchant{},
		&models.MenuCategory{},
		&models.MenuProduct{},
		&models.MenuProductOption{},
		&models.Menu{},
		&models.CategoryLink{},
		&models.ProductLink{},
		&models.OptionLink{},
		&models.OAuthClient{},
		&models.OAuthToken{},
		&models.OAuthCode{},
	}
}

// Migrate runs database migrations on a gorm.DB instance
func Migrate(db *gorm.DB) error {
	log.Info("Running database migrations")
	return db.AutoMigrate(Models()...)
}
