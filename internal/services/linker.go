package services

import (
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertLink connects row to an existing link with the same natural key or creates it.
// On connect the existing id is copied into row and only the mutable columns are written.
// A duplicate-key race with a concurrent build is resolved by re-reading once.
func upsertLink[T any, PT interface {
	*T
	models.Link
}](tx *gorm.DB, row PT, mutable ...string) error {
	attempt := func() error {
		return tx.Transaction(func(sp *gorm.DB) error {
			return connectOrCreate[T, PT](sp, row, mutable)
		})
	}

	err := attempt()
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	log.WithField("natural_key", row.NaturalKey()).Debug("Link created concurrently, re-resolving")
	row.SetID("")
	if err = attempt(); errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: link %v", ErrConflict, row.NaturalKey())
	}
	return err
}

func connectOrCreate[T any, PT interface {
	*T
	models.Link
}](tx *gorm.DB, row PT, mutable []string) error {
	var existing T
	err := tx.Where(row.NaturalKey()).Take(&existing).Error
	switch {
	case err == nil:
		row.SetID(PT(&existing).GetID())
		if len(mutable) == 0 {
			return nil
		}
		return tx.Model(PT(&existing)).Select(mutable).Updates(row).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		if row.GetID() == "" {
			row.SetID(uuid.NewString())
		}
		return tx.Omit(clause.Associations).Create(row).Error
	default:
		return err
	}
}
