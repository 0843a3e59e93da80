package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"agence-backend/services"

	"github.com/gin-gonic/gin"
)

type CreateFacturePayload struct {
	ReservationID uint   `json:"reservation_id" binding:"required"`
	Date          string `json:"date"`
}

type FactureController struct {
	FactureSvc *services.FactureService
}

func NewFactureController(svc *services.FactureService) *FactureController {
	return &FactureController{FactureSvc: svc}
}

// GetFactures (GET /api/factures)
func (ctrl *FactureController) GetFactures(c *gin.Context) {
	limit, offset := parsePagination(c)
	reservationID, _ := strconv.ParseUint(c.Query("reservation_id"), 10, 64)

	list, err := ctrl.FactureSvc.List(c.Request.Context(), services.FactureFilter{
		ReservationID: uint(reservationID),
		Statut:        c.Query("statut"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		log.Printf("❌ DB ERROR listing factures: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetFacture (GET /api/factures/:id)
func (ctrl *FactureController) GetFacture(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := ctrl.FactureSvc.Get(c.Request.Context(), id)
	if err != nil {
		if err.Error() == "facture_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.factureNotFound", "message": "facture introuvable"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// CreateFacture (POST /api/factures) opens a draft facture for a reservation.
func (ctrl *FactureController) CreateFacture(c *gin.Context) {
	var payload CreateFacturePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidPayload", "message": "reservation_id est requis", "details": err.Error()},
		})
		return
	}

	date := time.Now()
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": "error.invalidDate", "message": "date invalide, format attendu AAAA-MM-JJ"},
			})
			return
		}
		date = parsed
	}

	invoice, err := ctrl.FactureSvc.CreateForReservation(c.Request.Context(), payload.ReservationID, date)
	if err != nil {
		if err.Error() == "reservation_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.reservationNotFound", "message": "réservation introuvable"},
			})
			return
		}
		log.Printf("❌ DB ERROR creating facture: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.saveFailed", "message": "échec de la création de la facture", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// IssueFacture (POST /api/factures/:id/emettre) transitions draft -> issued.
func (ctrl *FactureController) IssueFacture(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.FactureSvc.Issue(c.Request.Context(), id); err != nil {
		switch err.Error() {
		case "facture_not_found":
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.factureNotFound", "message": "facture introuvable"},
			})
		case "facture_cancelled":
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{"code": "error.factureCancelled", "message": "une facture annulée ne peut pas être émise"},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
			})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CancelFacture (POST /api/factures/:id/annuler)
func (ctrl *FactureController) CancelFacture(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.FactureSvc.Cancel(c.Request.Context(), id); err != nil {
		if err.Error() == "facture_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.factureNotFound", "message": "facture introuvable"},
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
