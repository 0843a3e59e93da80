package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"agence-backend/controllers"
	"agence-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the API surface.
func SetupRouter(
	wc *controllers.WizardController,
	rc *controllers.ReservationController,
	fc *controllers.FactureController,
	pc *controllers.PaymentController,
	cc *controllers.ClientController,
	prc *controllers.ProductController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Clients
		clients := api.Group("/clients")
		{
			clients.GET("", cc.GetClients)
			clients.GET("/:id", cc.GetClient)
			clients.POST("", cc.CreateClient)
			clients.PUT("/:id", cc.UpdateClient)
			clients.DELETE("/:id", cc.DeleteClient)
		}

		// Catalog
		produits := api.Group("/produits")
		{
			produits.GET("", prc.GetProduits)
			produits.POST("", prc.CreateProduit)
			produits.DELETE("/:id", prc.DeleteProduit)
		}
		forfaits := api.Group("/forfaits")
		{
			forfaits.GET("", prc.GetForfaits)
			forfaits.POST("", prc.CreateForfait)
			forfaits.DELETE("/:id", prc.DeleteForfait)
		}

		// Reservations
		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.GetReservations)
			reservations.POST("", rc.CreateReservation)
			reservations.GET("/:id", rc.GetReservation)
			reservations.PUT("/:id", rc.UpdateReservation)
			reservations.DELETE("/:id", rc.DeleteReservation)
		}

		// Reservation wizard sessions
		wizard := api.Group("/reservation-wizard")
		{
			wizard.POST("", wc.Start)
			wizard.GET("/:id", wc.GetState)
			wizard.PUT("/:id/draft", wc.UpdateDraft)
			wizard.POST("/:id/next", wc.Next)
			wizard.POST("/:id/prev", wc.Prev)
			wizard.POST("/:id/jump", wc.Jump)
			wizard.POST("/:id/submit", wc.Submit)
			wizard.DELETE("/:id", wc.Cancel)
		}

		// Factures
		factures := api.Group("/factures")
		{
			factures.GET("", fc.GetFactures)
			factures.POST("", fc.CreateFacture)
			factures.GET("/:id", fc.GetFacture)
			factures.POST("/:id/emettre", fc.IssueFacture)
			factures.POST("/:id/annuler", fc.CancelFacture)
		}

		// Paiements
		paiements := api.Group("/paiements")
		{
			paiements.GET("", pc.GetPayments)
			paiements.POST("", pc.RegisterPayment)
			paiements.POST("/:id/annuler", pc.CancelPayment)
		}

		// Depenses
		depenses := api.Group("/depenses")
		{
			depenses.GET("", controllers.GetDepenses)
			depenses.POST("", controllers.CreateDepense)
			depenses.PATCH("/:id", controllers.UpdateDepense)
			depenses.DELETE("/:id", controllers.DeleteDepense)
		}

		// Auth / users
		auth := api.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
		}
		users := api.Group("/users")
		{
			users.GET("", controllers.GetUsers)
			users.POST("", controllers.CreateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}
	}

	return r
}
