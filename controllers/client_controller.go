package controllers

import (
	"log"
	"net/http"
	"strconv"

	"agence-backend/models"
	"agence-backend/services"

	"github.com/gin-gonic/gin"
)

type ClientController struct {
	ClientSvc *services.ClientService
}

func NewClientController(svc *services.ClientService) *ClientController {
	return &ClientController{ClientSvc: svc}
}

// GetClients (GET /api/clients?q=) feeds the selector and the client list.
func (ctrl *ClientController) GetClients(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := ctrl.ClientSvc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		log.Printf("❌ DB ERROR listing clients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetClient (GET /api/clients/:id)
func (ctrl *ClientController) GetClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := ctrl.ClientSvc.Get(c.Request.Context(), id)
	if err != nil {
		if err.Error() == "client_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.clientNotFound", "message": "client introuvable"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient (POST /api/clients)
func (ctrl *ClientController) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid client payload: " + err.Error()})
		return
	}

	if err := ctrl.ClientSvc.Create(&client); err != nil {
		log.Printf("❌ DB ERROR during client creation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create client: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient (PUT /api/clients/:id)
func (ctrl *ClientController) UpdateClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.invalidPayload", "message": "payload invalide", "details": err.Error()},
		})
		return
	}

	client, err := ctrl.ClientSvc.Update(c.Request.Context(), id, updates)
	if err != nil {
		if err.Error() == "client_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.clientNotFound", "message": "client introuvable"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": "erreur interne", "details": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient (DELETE /api/clients/:id)
func (ctrl *ClientController) DeleteClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.ClientSvc.Delete(c.Request.Context(), id); err != nil {
		if err.Error() == "client_not_found" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "error.clientNotFound", "message": "client introuvable"},
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
