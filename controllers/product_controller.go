package controllers

import (
	"log"
	"net/http"
	"strings"

	"agence-backend/models"
	"agence-backend/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	ProductSvc *services.ProductService
}

func NewProductController(svc *services.ProductService) *ProductController {
	return &ProductController{ProductSvc: svc}
}

// GetProduits (GET /api/produits?type=) feeds the step-1 product selector.
func (ctrl *ProductController) GetProduits(c *gin.Context) {
	list, err := ctrl.ProductSvc.ListProducts(c.Request.Context(), c.Query("type"))
	if err != nil {
		if strings.HasPrefix(err.Error(), "validation:") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": "error.validation", "message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:"))},
			})
			return
		}
		log.Printf("❌ DB ERROR listing produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateProduit (POST /api/produits)
func (ctrl *ProductController) CreateProduit(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid produit payload: " + err.Error()})
		return
	}
	product.Actif = true

	if err := ctrl.ProductSvc.CreateProduct(&product); err != nil {
		if strings.HasPrefix(err.Error(), "validation:") {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{"code": "error.validation", "message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:"))},
			})
			return
		}
		log.Printf("❌ DB ERROR during produit creation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create produit: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// DeleteProduit (DELETE /api/produits/:id)
func (ctrl *ProductController) DeleteProduit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.ProductSvc.DeleteProduct(c.Request.Context(), id); err != nil {
		if err.Error() == "produit_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.produitNotFound", "message": "produit introuvable"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetForfaits (GET /api/forfaits) feeds the forfait selector.
func (ctrl *ProductController) GetForfaits(c *gin.Context) {
	list, err := ctrl.ProductSvc.ListForfaits(c.Request.Context())
	if err != nil {
		log.Printf("❌ DB ERROR listing forfaits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateForfait (POST /api/forfaits)
func (ctrl *ProductController) CreateForfait(c *gin.Context) {
	var forfait models.TravelPackage
	if err := c.ShouldBindJSON(&forfait); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid forfait payload: " + err.Error()})
		return
	}
	forfait.Actif = true

	if err := ctrl.ProductSvc.CreateForfait(&forfait); err != nil {
		if strings.HasPrefix(err.Error(), "validation:") {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{"code": "error.validation", "message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:"))},
			})
			return
		}
		log.Printf("❌ DB ERROR during forfait creation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create forfait: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, forfait)
}

// DeleteForfait (DELETE /api/forfaits/:id)
func (ctrl *ProductController) DeleteForfait(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.ProductSvc.DeleteForfait(c.Request.Context(), id); err != nil {
		if err.Error() == "forfait_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.forfaitNotFound", "message": "forfait introuvable"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
