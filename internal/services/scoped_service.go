package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScopedService provides CRUD over a single table whose rows belong to one organization.
// Every query is filtered by organization, rows of other tenants behave as missing.
type ScopedService[T any] interface {
	List(ctx context.Context, orgID string) ([]T, error)
	Get(ctx context.Context, orgID, id string) (*T, error)
	// Create assigns a fresh id and the owning organization before inserting item
	Create(ctx context.Context, orgID string, item *T) (*T, error)
	// Update writes the non-zero fields of patch
	Update(ctx context.Context, orgID, id string, patch *T) (*T, error)
	Delete(ctx context.Context, orgID, id string) (*T, error)
}

type scopedService[T any, PT interface {
	*T
	models.Owned
}] struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewScopedService creates a ScopedService for the owned model T
func NewScopedService[T any, PT interface {
	*T
	models.Owned
}](db *gorm.DB, validate *validator.Validate) ScopedService[T] {
	if validate == nil {
		validate = NewValidator()
	}
	return &scopedService[T, PT]{db: db, validate: validate}
}

func (s *scopedService[T, PT]) scoped(ctx context.Context, orgID string) *gorm.DB {
	return s.db.WithContext(ctx).Where("organization_id = ?", orgID)
}

func (s *scopedService[T, PT]) List(ctx context.Context, orgID string) ([]T, error) {
	items := make([]T, 0)
	if err := s.scoped(ctx, orgID).Order("created_at").Find(&items).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	return items, nil
}

func (s *scopedService[T, PT]) Get(ctx context.Context, orgID, id string) (*T, error) {
	var item T
	if err := s.scoped(ctx, orgID).Where("id = ?", id).Take(&item).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	return &item, nil
}

func (s *scopedService[T, PT]) Create(ctx context.Context, orgID string, item *T) (*T, error) {
	PT(item).SetID(uuid.NewString())
	PT(item).SetOrganizationID(orgID)
	if err := validateStruct(s.validate, item); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	log.WithFields(log.Fields{"organization_id": orgID, "type": fmt.Sprintf("%T", item)}).Debug("Record created")
	return item, nil
}

func (s *scopedService[T, PT]) Update(ctx context.Context, orgID, id string, patch *T) (*T, error) {
	// identity columns are never patched
	PT(patch).SetID("")
	PT(patch).SetOrganizationID("")

	var item T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND organization_id = ?", id, orgID).Take(&item).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).
			Omit("id", "organization_id", "created_at", clause.Associations).
			Updates(patch).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&item).Error
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return &item, nil
}

func (s *scopedService[T, PT]) Delete(ctx context.Context, orgID, id string) (*T, error) {
	var item T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND organization_id = ?", id, orgID).Take(&item).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return &item, nil
}
