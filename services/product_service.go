package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agence-backend/models"

	"gorm.io/gorm"
)

// ProductService serves the step-1 selectors: produits filtered by
// reservation type, and forfaits.
type ProductService struct {
	DB *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{DB: db}
}

// ListProducts returns active produits, optionally narrowed to one
// reservation type.
func (s *ProductService) ListProducts(ctx context.Context, reservationType string) ([]models.Product, error) {
	tx := s.DB.WithContext(ctx).Where("actif = ?", true).Order("nom ASC")
	if t := strings.TrimSpace(reservationType); t != "" {
		if !IsKnownType(t) {
			return nil, fmt.Errorf("validation: type de produit inconnu: %q", t)
		}
		tx = tx.Where("type = ?", t)
	}
	var list []models.Product
	if err := tx.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve produits: %w", err)
	}
	return list, nil
}

func (s *ProductService) CreateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Nom) == "" {
		return errors.New("validation: le nom du produit est requis")
	}
	if !IsKnownType(product.Type) {
		return fmt.Errorf("validation: type de produit inconnu: %q", product.Type)
	}
	return s.DB.Create(product).Error
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete produit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("produit_not_found")
	}
	return nil
}

// ListForfaits returns active forfaits for the package selector.
func (s *ProductService) ListForfaits(ctx context.Context) ([]models.TravelPackage, error) {
	var list []models.TravelPackage
	if err := s.DB.WithContext(ctx).Where("actif = ?", true).Order("nom ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve forfaits: %w", err)
	}
	return list, nil
}

func (s *ProductService) CreateForfait(forfait *models.TravelPackage) error {
	if strings.TrimSpace(forfait.Nom) == "" {
		return errors.New("validation: le nom du forfait est requis")
	}
	return s.DB.Create(forfait).Error
}

func (s *ProductService) DeleteForfait(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.TravelPackage{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete forfait: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("forfait_not_found")
	}
	return nil
}
