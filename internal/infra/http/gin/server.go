package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"frontdesk/internal/infra/config"
	"frontdesk/internal/infra/obs"
)

type BookingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Cancel(c *gin.Context)
	MarkComplimentary(c *gin.Context)
	CheckIn(c *gin.Context)
	CheckOut(c *gin.Context)
	UpdatePayment(c *gin.Context)
	Unpost(c *gin.Context)
}

type RoomHTTP interface {
	List(c *gin.Context)
	Available(c *gin.Context)
}

type AuditHTTP interface {
	Post(c *gin.Context)
}

type Handlers struct {
	Booking BookingHTTP
	Room    RoomHTTP
	Audit   AuditHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.GET("/bookings", h.Booking.List)
		api.POST("/bookings", h.Booking.Create)
		api.PATCH("/bookings/:id", h.Booking.Update)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.POST("/bookings/:id/complimentary", h.Booking.MarkComplimentary)
		api.POST("/bookings/:id/check-in", h.Booking.CheckIn)
		api.POST("/bookings/:id/check-out", h.Booking.CheckOut)
		api.POST("/bookings/:id/payment", h.Booking.UpdatePayment)
		api.POST("/bookings/:id/unpost", h.Booking.Unpost)
	}
	if h.Room != nil {
		api.GET("/rooms", h.Room.List)
		api.GET("/rooms/available", h.Room.Available)
	}
	if h.Audit != nil {
		api.POST("/night-audit/post", h.Audit.Post)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
