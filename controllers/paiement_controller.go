package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"agence-backend/services"

	"github.com/gin-gonic/gin"
)

type RegisterPaymentPayload struct {
	FactureID uint    `json:"facture_id" binding:"required"`
	Montant   float64 `json:"montant" binding:"required"`
	Methode   string  `json:"methode" binding:"required"`
	Reference string  `json:"reference"`
	Statut    string  `json:"statut"`
}

type PaymentController struct {
	PaymentSvc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{PaymentSvc: svc}
}

// GetPayments (GET /api/paiements?facture_id=)
func (ctrl *PaymentController) GetPayments(c *gin.Context) {
	if rawID := c.Query("facture_id"); rawID != "" {
		factureID, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil || factureID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": "error.invalidId", "message": "facture_id invalide"},
			})
			return
		}
		list, err := ctrl.PaymentSvc.ListByFacture(c.Request.Context(), uint(factureID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
			})
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	limit, offset := parsePagination(c)
	list, err := ctrl.PaymentSvc.List(c.Request.Context(), limit, offset)
	if err != nil {
		log.Printf("❌ DB ERROR listing paiements: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

// RegisterPayment (POST /api/paiements)
func (ctrl *PaymentController) RegisterPayment(c *gin.Context) {
	var payload RegisterPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidPayload", "message": "facture_id, montant et methode sont requis", "details": err.Error()},
		})
		return
	}

	payment, err := ctrl.PaymentSvc.Register(c.Request.Context(), payload.FactureID, services.PaymentRequest{
		Amount:    payload.Montant,
		Method:    payload.Methode,
		Reference: payload.Reference,
		Status:    payload.Statut,
	})
	if err != nil {
		switch {
		case err.Error() == "facture_not_found":
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.factureNotFound", "message": "facture introuvable"},
			})
		case err.Error() == "facture_cancelled":
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{"code": "error.factureCancelled", "message": "impossible d'enregistrer un paiement sur une facture annulée"},
			})
		case strings.HasPrefix(err.Error(), "validation:"):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{"code": "error.validation", "message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:"))},
			})
		default:
			log.Printf("❌ DB ERROR registering payment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "error.saveFailed", "message": "échec de l'enregistrement du paiement", "details": err.Error()},
			})
		}
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// CancelPayment (POST /api/paiements/:id/annuler)
func (ctrl *PaymentController) CancelPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.PaymentSvc.CancelPayment(c.Request.Context(), id); err != nil {
		if err.Error() == "payment_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.paymentNotFound", "message": "paiement introuvable"},
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
