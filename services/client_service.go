package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agence-backend/models"

	"gorm.io/gorm"
)

type ClientService struct {
	DB *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{DB: db}
}

// Create receives a pointer so GORM writes the generated ID back.
func (s *ClientService) Create(client *models.Client) error {
	if strings.TrimSpace(client.Nom) == "" {
		return errors.New("validation: le nom du client est requis")
	}
	return s.DB.Create(client).Error
}

// Search feeds the step-0 client selector.
func (s *ClientService) Search(ctx context.Context, query string, limit int) ([]models.ClientBasic, error) {
	tx := s.DB.WithContext(ctx).Model(&models.Client{}).Order("nom ASC")
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(nom) LIKE ? OR LOWER(email) LIKE ? OR telephone LIKE ?", like, like, like)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []models.ClientBasic
	if err := tx.Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return list, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := s.DB.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("client_not_found")
		}
		return nil, fmt.Errorf("failed to retrieve client: %w", err)
	}
	return &client, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Client, error) {
	delete(updates, "id")
	delete(updates, "created_at")

	res := s.DB.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("client_not_found")
	}
	return s.Get(ctx, id)
}

func (s *ClientService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Client{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("client_not_found")
	}
	return nil
}
