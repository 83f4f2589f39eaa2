package router

import (
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/controllers"
	"github.com/gigbridge/gigwork-app/middlewares"
	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// 50 requests per second per IP; must be attached before any route is
	// registered or gin leaves it off the handler chains
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	// The real gateway is only wired when a server key is configured;
	// otherwise payments are initiated as out-of-band references.
	var initiator services.PaymentInitiator = services.NoopInitiator{}
	if os.Getenv("MIDTRANS_SERVER_KEY") != "" {
		initiator = services.GetMidtransInitiator()
	}

	userCtrl := controllers.NewUserController(db)
	shiftCtrl := controllers.NewShiftController(db)
	invoiceCtrl := controllers.NewInvoiceController(db, initiator)
	reviewCtrl := controllers.NewReviewController(db)
	venueCtrl := controllers.NewVenueController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// Public directory reads
	r.GET("/venues", venueCtrl.GetAllVenues)
	r.GET("/venues/:venue_id", venueCtrl.GetVenueByID)
	r.GET("/reviews/:recipient_id", reviewCtrl.GetReviewsForRecipient)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/engagements", venueCtrl.GetEngagements)

	// SHIFTS (worker)
	worker := auth.Group("/")
	worker.Use(middlewares.RequireRole(models.RoleWorker))
	{
		worker.POST("/shifts/clock-in", shiftCtrl.ClockIn)
		worker.POST("/shifts/:shift_id/clock-out", shiftCtrl.ClockOut)
		worker.POST("/shifts/qr-clock", shiftCtrl.QRClockAction)
		worker.GET("/shifts/open", shiftCtrl.GetOpenShift)
		worker.GET("/shifts", shiftCtrl.GetAllShifts)

		worker.POST("/invoices/from-shift", invoiceCtrl.CreateFromShift)
		worker.POST("/invoices/manual", invoiceCtrl.CreateManual)
	}

	// APPROVAL + PAYMENT (payer / venue side)
	payer := auth.Group("/")
	payer.Use(middlewares.RequireRole(models.RolePayer))
	{
		payer.PATCH("/shifts/:shift_id/decision", shiftCtrl.Decide)
		payer.POST("/invoices/:invoice_id/initiate-payment", invoiceCtrl.InitiatePayment)
		payer.POST("/invoices/:invoice_id/mark-paid", invoiceCtrl.MarkPaid)
		payer.POST("/venues/:venue_id/qr-token", venueCtrl.IssueQRToken)
	}

	// INVOICES (both sides)
	auth.GET("/invoices", invoiceCtrl.GetAllInvoices)
	auth.GET("/invoices/:invoice_id", invoiceCtrl.GetInvoiceByID)
	auth.GET("/invoices/:invoice_id/document", invoiceCtrl.GenerateDocument)

	// REVIEWS (both sides)
	auth.GET("/reviews/eligibility", reviewCtrl.CheckEligibility)
	auth.POST("/reviews", reviewCtrl.SubmitReview)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetAllNotifications)
	auth.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkRead)

	// WebSocket endpoint for live events
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.AuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.NotifyHandler)
	}

	return r
}
