package controllers

import (
	"log"
	"net/http"
	"strings"

	"agence-backend/config"
	"agence-backend/models"

	"github.com/gin-gonic/gin"
)

// ----------------------------------------------------
// Depenses (GET /api/depenses)
// ----------------------------------------------------

func GetDepenses(c *gin.Context) {
	var depenses []models.Expense
	tx := config.DB.Order("created_at DESC")
	if cat := strings.TrimSpace(c.Query("categorie")); cat != "" {
		tx = tx.Where("categorie = ?", cat)
	}
	tx.Find(&depenses)

	c.JSON(http.StatusOK, depenses)
}

// ----------------------------------------------------
// Create Depense (POST /api/depenses)
// ----------------------------------------------------

func CreateDepense(c *gin.Context) {
	var depense models.Expense

	if err := c.ShouldBindJSON(&depense); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	depense.Libelle = strings.TrimSpace(depense.Libelle)
	if depense.Libelle == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Le libellé de la dépense est requis.",
		})
		return
	}
	if depense.Montant <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Le montant de la dépense doit être supérieur à 0.",
		})
		return
	}

	if result := config.DB.Create(&depense); result.Error != nil {
		log.Printf("❌ DB ERROR: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": result.Error.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, depense)
}

// ----------------------------------------------------
// Update Depense (PATCH /api/depenses/:id)
// ----------------------------------------------------

func UpdateDepense(c *gin.Context) {
	id := c.Param("id")
	var updateData map[string]interface{}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	delete(updateData, "id")
	delete(updateData, "created_at")

	res := config.DB.Model(&models.Expense{}).Where("id = ?", id).Updates(updateData)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": res.Error.Error(),
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Dépense introuvable"})
		return
	}

	var depense models.Expense
	config.DB.First(&depense, id)
	c.JSON(http.StatusOK, depense)
}

// ----------------------------------------------------
// Delete Depense (DELETE /api/depenses/:id)
// ----------------------------------------------------

func DeleteDepense(c *gin.Context) {
	id := c.Param("id")

	res := config.DB.Delete(&models.Expense{}, "id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": res.Error.Error(),
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Dépense introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
