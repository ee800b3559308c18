package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ClientRequest describes a new OAuth2 client
type ClientRequest struct {
	Name        string `json:"name" binding:"required"`
	Domain      string `json:"domain"`
	Scopes      string `json:"scopes"`
	GrantTypes  string `json:"grant_types"`
	RedirectURI string `json:"redirect_uri" binding:"omitempty,url"`
}

// ClientService manages the OAuth2 clients of an organization
type ClientService interface {
	// CreateClient registers a client and returns it with its plain secret, which is never stored
	CreateClient(ctx context.Context, orgID string, req ClientRequest) (*models.OAuthClient, string, error)
	GetClientsByOrganization(ctx context.Context, orgID string) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	DeleteClient(ctx context.Context, orgID, clientID string) error
}

type clientService struct {
	db   *gorm.DB
	cost int
}

// NewClientService creates a new instance of ClientService
func NewClientService(db *gorm.DB, secretCost int) ClientService {
	if secretCost < bcrypt.MinCost {
		secretCost = bcrypt.DefaultCost
	}
	return &clientService{db: db, cost: secretCost}
}

func (s *clientService) CreateClient(ctx context.Context, orgID string, req ClientRequest) (*models.OAuthClient, string, error) {
	secret := uuid.NewString()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash client secret: %w", err)
	}

	client := &models.OAuthClient{
		ID:             uuid.NewString(),
		Secret:         string(hashedSecret),
		Name:           req.Name,
		Domain:         req.Domain,
		OrganizationID: orgID,
		Scopes:         defaultString(req.Scopes, "read write"),
		GrantTypes:     defaultString(req.GrantTypes, "client_credentials"),
		RedirectURI:    req.RedirectURI,
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, "", classifyStoreError(err)
	}

	log.WithFields(log.Fields{"organization_id": orgID, "client_id": client.ID}).Info("OAuth client created")
	return client, secret, nil
}

func (s *clientService) GetClientsByOrganization(ctx context.Context, orgID string) ([]models.OAuthClient, error) {
	clients := make([]models.OAuthClient, 0)
	if err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).Find(&clients).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&client).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, orgID, clientID string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND organization_id = ?", clientID, orgID).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return classifyStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: client %s", ErrNotFound, clientID)
	}
	return nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
