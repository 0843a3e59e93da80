package controllers

import (
	"errors"
	"log"
	"net/http"

	"agence-backend/services"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type StartWizardPayload struct {
	ReservationID *uint `json:"reservation_id"`
}

type JumpPayload struct {
	Step *int `json:"step" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type WizardController struct {
	Sessions *services.WizardSessionService
}

func NewWizardController(sessions *services.WizardSessionService) *WizardController {
	return &WizardController{Sessions: sessions}
}

func wizardState(w *services.Wizard) gin.H {
	return gin.H{
		"session_id": w.ID,
		"step":       int(w.Current()),
		"step_name":  w.Current().String(),
		"draft":      w.Draft(),
	}
}

func (ctrl *WizardController) session(c *gin.Context) (*services.Wizard, bool) {
	w, err := ctrl.Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "error.sessionNotFound", "message": "session d'assistant introuvable ou expirée"},
		})
		return nil, false
	}
	return w, true
}

// Start (POST /api/reservation-wizard) opens a session, hydrating from an
// existing reservation when reservation_id is given.
func (ctrl *WizardController) Start(c *gin.Context) {
	var payload StartWizardPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": "error.invalidPayload", "message": "payload invalide", "details": err.Error()},
			})
			return
		}
	}

	w, err := ctrl.Sessions.Start(c.Request.Context(), payload.ReservationID)
	if err != nil {
		if err.Error() == "reservation_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.reservationNotFound", "message": "réservation introuvable"},
			})
			return
		}
		log.Printf("❌ wizard start error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}

	c.JSON(http.StatusCreated, wizardState(w))
}

// GetState (GET /api/reservation-wizard/:id)
func (ctrl *WizardController) GetState(c *gin.Context) {
	w, ok := ctrl.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, wizardState(w))
}

// UpdateDraft (PUT /api/reservation-wizard/:id/draft) replaces the draft.
// Type invariants are re-enforced server-side, so a type switch arriving with
// stale cross-type fields comes back cleaned.
func (ctrl *WizardController) UpdateDraft(c *gin.Context) {
	w, ok := ctrl.session(c)
	if !ok {
		return
	}

	var draft services.ReservationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidPayload", "message": "brouillon invalide", "details": err.Error()},
		})
		return
	}

	applied := w.ApplyDraft(draft)
	c.JSON(http.StatusOK, gin.H{"session_id": w.ID, "step": int(w.Current()), "draft": applied})
}

// Next (POST /api/reservation-wizard/:id/next)
func (ctrl *WizardController) Next(c *gin.Context) {
	w, ok := ctrl.session(c)
	if !ok {
		return
	}
	if stepErr := w.GoNext(); stepErr != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{"code": "error.validation", "step": int(stepErr.Step), "message": stepErr.Message},
		})
		return
	}
	c.JSON(http.StatusOK, wizardState(w))
}

// Prev (POST /api/reservation-wizard/:id/prev). Going backward never
// validates.
func (ctrl *WizardController) Prev(c *gin.Context) {
	w, ok := ctrl.session(c)
	if !ok {
		return
	}
	w.GoPrev()
	c.JSON(http.StatusOK, wizardState(w))
}

// Jump (POST /api/reservation-wizard/:id/jump). Any step indicator is
// clickable; validation catches up at next/submit.
func (ctrl *WizardController) Jump(c *gin.Context) {
	w, ok := ctrl.session(c)
	if !ok {
		return
	}

	var payload JumpPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidPayload", "message": "l'étape cible est requise", "details": err.Error()},
		})
		return
	}
	if err := w.JumpTo(*payload.Step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.stepOutOfRange", "message": "étape hors limites"},
		})
		return
	}
	c.JSON(http.StatusOK, wizardState(w))
}

// Submit (POST /api/reservation-wizard/:id/submit) persists the reservation
// and, when an acompte is present, orchestrates its recording. A deposit
// failure after a successful save returns 206: the reservation exists, the
// acompte does not.
func (ctrl *WizardController) Submit(c *gin.Context) {
	w, ok := ctrl.session(c)
	if !ok {
		return
	}

	result, err := w.Submit(c.Request.Context())
	if err != nil {
		var stepErr *services.StepError
		switch {
		case errors.As(err, &stepErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{"code": "error.validation", "step": int(stepErr.Step), "message": stepErr.Message},
			})
		case errors.Is(err, services.ErrSubmitInFlight):
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{"code": "error.submitInFlight", "message": "un envoi est déjà en cours pour cette session"},
			})
		default:
			// Draft preserved server-side: the user retries without
			// re-entering anything.
			log.Printf("❌ wizard submit error (session %s): %v", w.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "error.saveFailed", "message": "échec de l'enregistrement de la réservation", "details": err.Error()},
			})
		}
		return
	}

	// Submit succeeded: the session's draft is done with.
	ctrl.Sessions.Delete(w.ID)

	if result.DepositError != nil {
		c.JSON(http.StatusPartialContent, gin.H{
			"status": "warning",
			"data":   gin.H{"reservation": result.Reservation},
			"error": gin.H{
				"code":    "error.depositFailed",
				"message": "la réservation a été enregistrée, mais l'acompte n'a pas pu être enregistré",
				"details": result.DepositError.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"reservation": result.Reservation, "acompte": result.Deposit},
	})
}

// Cancel (DELETE /api/reservation-wizard/:id) drops the session and its
// draft.
func (ctrl *WizardController) Cancel(c *gin.Context) {
	ctrl.Sessions.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
