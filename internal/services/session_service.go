package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-menu-api/internal/cache"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const sessionKeyPrefix = "session:"

// SessionService issues and resolves the opaque session tokens carried by the auth cookie
type SessionService interface {
	// CreateSession opens a session for orgID and returns it. The session ID is the token.
	CreateSession(ctx context.Context, orgID, ip string) (*models.Session, error)
	// ResolveSession maps a token to the organization it was issued to
	ResolveSession(ctx context.Context, token string) (*models.Actor, error)
	// Logout ends a single session
	Logout(ctx context.Context, token string) error
	// LogoutOthers ends every session of the organization except keep
	LogoutOthers(ctx context.Context, orgID, keep string) error
}

type sessionService struct {
	db       *gorm.DB
	cache    cache.Cache
	ttl      time.Duration
	cacheTTL time.Duration
}

// NewSessionService creates a SessionService. Resolved sessions are cached for cacheTTL.
func NewSessionService(db *gorm.DB, c cache.Cache, ttl, cacheTTL time.Duration) SessionService {
	return &sessionService{db: db, cache: c, ttl: ttl, cacheTTL: cacheTTL}
}

func (s *sessionService) CreateSession(ctx context.Context, orgID, ip string) (*models.Session, error) {
	session := &models.Session{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		IP:             ip,
		ExpiresAt:      time.Now().UTC().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	return session, nil
}

func (s *sessionService) ResolveSession(ctx context.Context, token string) (*models.Actor, error) {
	parsed, err := uuid.Parse(token)
	if err != nil || parsed.Version() != 4 {
		return nil, ErrInvalidSessionToken
	}

	var actor models.Actor
	found, err := s.cache.Get(ctx, sessionKeyPrefix+token, &actor)
	if err != nil {
		// the cache only saves a round trip, fall through to the store
		log.WithError(err).Warn("Session cache read failed")
	}
	if found {
		return &actor, nil
	}

	var session models.Session
	err = s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", token, time.Now().UTC()).
		Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, classifyStoreError(err)
	}

	actor = models.Actor{OrganizationID: session.OrganizationID, SessionID: session.ID}
	if err := s.cache.Set(ctx, sessionKeyPrefix+token, actor, s.cacheTTL); err != nil {
		log.WithError(err).Warn("Session cache write failed")
	}
	return &actor, nil
}

func (s *sessionService) Logout(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", token).Delete(&models.Session{}).Error; err != nil {
		return classifyStoreError(err)
	}
	return s.cache.Delete(ctx, sessionKeyPrefix+token)
}

func (s *sessionService) LogoutOthers(ctx context.Context, orgID, keep string) error {
	var ids []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).
			Where("organization_id = ? AND id <> ?", orgID, keep).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&models.Session{}).Error
	})
	if err != nil {
		return classifyStoreError(err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to evict sessions: %w", err)
	}

	log.WithFields(log.Fields{"organization_id": orgID, "revoked": len(ids)}).Info("Sessions revoked")
	return nil
}
