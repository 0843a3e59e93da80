package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"agence-backend/services"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	ReservationSvc *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{ReservationSvc: svc}
}

func parsePagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidId", "message": "identifiant invalide"},
		})
		return 0, false
	}
	return uint(id), true
}

// GetReservations (GET /api/reservations) lists with settlement attached.
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	limit, offset := parsePagination(c)
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 64)

	list, err := ctrl.ReservationSvc.List(c.Request.Context(), services.ReservationFilter{
		Type:     strings.TrimSpace(c.Query("type")),
		ClientID: uint(clientID),
		Query:    c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		log.Printf("❌ DB ERROR listing reservations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetReservation (GET /api/reservations/:id)
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	r, err := ctrl.ReservationSvc.GetReservation(c.Request.Context(), id)
	if err != nil {
		if err.Error() == "reservation_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.reservationNotFound", "message": "réservation introuvable"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateReservation (POST /api/reservations) accepts the same payload shape
// the wizard builds, for direct API use.
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidPayload", "message": "payload invalide", "details": err.Error()},
		})
		return
	}

	r, err := ctrl.ReservationSvc.CreateReservation(c.Request.Context(), payload)
	if err != nil {
		if strings.HasPrefix(err.Error(), "validation:") {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{"code": "error.validation", "message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:"))},
			})
			return
		}
		log.Printf("❌ DB ERROR creating reservation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.saveFailed", "message": "échec de l'enregistrement", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateReservation (PUT /api/reservations/:id)
func (ctrl *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidPayload", "message": "payload invalide", "details": err.Error()},
		})
		return
	}

	r, err := ctrl.ReservationSvc.UpdateReservation(c.Request.Context(), id, payload)
	if err != nil {
		switch {
		case err.Error() == "reservation_not_found":
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.reservationNotFound", "message": "réservation introuvable"},
			})
		case strings.HasPrefix(err.Error(), "validation:"):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{"code": "error.validation", "message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:"))},
			})
		default:
			log.Printf("❌ DB ERROR updating reservation %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "error.saveFailed", "message": "échec de la mise à jour", "details": err.Error()},
			})
		}
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteReservation (DELETE /api/reservations/:id)
func (ctrl *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.ReservationSvc.Delete(c.Request.Context(), id); err != nil {
		if err.Error() == "reservation_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.reservationNotFound", "message": "réservation introuvable"},
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
