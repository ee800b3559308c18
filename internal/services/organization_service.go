package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-menu-api/internal/cache"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const forgotKeyPrefix = "forgot:"

// OrganizationService manages tenant accounts and their credentials
type OrganizationService interface {
	Register(ctx context.Context, email, password string) (*models.Organization, error)
	// Authenticate returns the organization owning email when password matches
	Authenticate(ctx context.Context, email, password string) (*models.Organization, error)
	// GetOrganization loads the organization with its menus and catalog
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, orgID string) error
	// ForgotPassword issues a reset token. Only the most recent token of an email is honored.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type organizationService struct {
	db           *gorm.DB
	cache        cache.Cache
	passwordCost int
	resetTTL     time.Duration
}

// NewOrganizationService creates a new instance of OrganizationService
func NewOrganizationService(db *gorm.DB, c cache.Cache, passwordCost int, resetTTL time.Duration) OrganizationService {
	if passwordCost < bcrypt.MinCost {
		passwordCost = bcrypt.DefaultCost
	}
	return &organizationService{db: db, cache: c, passwordCost: passwordCost, resetTTL: resetTTL}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *organizationService) Register(ctx context.Context, email, password string) (*models.Organization, error) {
	email = normalizeEmail(email)

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Organization{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	if existing > 0 {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	org := &models.Organization{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(org).Error; err != nil {
		// lost a race against a concurrent registration of the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, classifyStoreError(err)
	}

	log.WithField("organization_id", org.ID).Info("Organization registered")
	return org, nil
}

func (s *organizationService) Authenticate(ctx context.Context, email, password string) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(org.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).
		Preload("Menus").
		Preload("MenuCategories").
		Preload("MenuProducts").
		Preload("MenuProductOptions").
		Where("id = ?", orgID).
		Take(&org).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return &org, nil
}

func (s *organizationService) DeleteOrganization(ctx context.Context, orgID string) error {
	var sessionIDs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).Where("organization_id = ?", orgID).Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", orgID).Delete(&models.Organization{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: organization %s", ErrNotFound, orgID)
		}
		return nil
	})
	if err != nil {
		return classifyStoreError(err)
	}

	keys := make([]string, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		keys = append(keys, sessionKeyPrefix+id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.WithError(err).Warn("Failed to evict sessions of deleted organization")
	}

	log.WithField("organization_id", orgID).Info("Organization deleted")
	return nil
}

func (s *organizationService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)

	var org models.Organization
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", classifyStoreError(err)
	}

	token := uuid.NewString()
	if err := s.cache.Set(ctx, forgotKeyPrefix+email, token, s.resetTTL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.cache.Set(ctx, forgotKeyPrefix+token, models.Actor{OrganizationID: org.ID}, s.resetTTL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	log.WithField("organization_id", org.ID).Info("Password reset token issued")
	return token, nil
}

func (s *organizationService) ResetPassword(ctx context.Context, token, newPassword string) error {
	var holder models.Actor
	found, err := s.cache.Get(ctx, forgotKeyPrefix+token, &holder)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return ErrInvalidResetToken
	}

	var org models.Organization
	if err := s.db.WithContext(ctx).Where("id = ?", holder.OrganizationID).Take(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return classifyStoreError(err)
	}

	var lastIssued string
	found, err = s.cache.Get(ctx, forgotKeyPrefix+org.Email, &lastIssued)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found || lastIssued != token {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.passwordCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&org).Update("password_hash", string(hash)).Error; err != nil {
		return classifyStoreError(err)
	}

	if err := s.cache.Delete(ctx, forgotKeyPrefix+token, forgotKeyPrefix+org.Email); err != nil {
		log.WithError(err).Warn("Failed to discard used reset token")
	}
	log.WithField("organization_id", org.ID).Info("Password reset")
	return nil
}
