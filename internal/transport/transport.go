package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/transport/middleware"
)

func InitRoutes(eventHandler *EventHandler, orderHandler *OrderHandler, userHandler *UserHandler, adminHandler *AdminHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30 * time.Second))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetAllEvents)
			events.GET("/upcoming", eventHandler.GetUpcomingEvents)
			events.GET("/popular", eventHandler.GetPopularEvents)
			events.GET("/search", eventHandler.SearchEvents)
			events.GET("/:slug", eventHandler.GetEventBySlug)
			events.GET("/:slug/participants", eventHandler.GetEventParticipants)
		}

		checkout := api.Group("/checkout")
		{
			checkout.POST("/quote", orderHandler.QuoteCheckout)
			checkout.GET("/vouchers", orderHandler.ListVouchers)
			checkout.GET("/payment-methods", orderHandler.ListPaymentMethods)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:code", orderHandler.GetOrder)
			orders.POST("/:code/proof", orderHandler.AttachProof)
			orders.POST("/:code/settle", orderHandler.SettleOrder)
			orders.POST("/:code/cancel", orderHandler.CancelOrder)
		}

		users := api.Group("/users")
		{
			users.POST("/register", userHandler.RegisterUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.POST("/:id/telegram", userHandler.LinkTelegram)
			users.POST("/:id/onboarding", userHandler.CompleteOnboarding)
			users.GET("/:id/rewards", userHandler.GetRewards)
			users.GET("/:id/orders", userHandler.GetUserOrders)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/events", adminHandler.CreateEvent)
			admin.PUT("/events/:id", adminHandler.UpdateEvent)
			admin.DELETE("/events/:id", adminHandler.DeleteEvent)
			admin.GET("/events/:id/orders", adminHandler.GetEventOrders)
			admin.GET("/events/:id/stats", adminHandler.GetEventStats)

			admin.GET("/orders", adminHandler.GetAllOrders)
			admin.GET("/orders/recent", adminHandler.GetRecentOrders)
			admin.GET("/orders/status/:status", adminHandler.GetOrdersByStatus)
			admin.POST("/orders/:id/approve", adminHandler.ApproveOrder)
			admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)

			admin.GET("/users", adminHandler.GetAllUsers)
			admin.POST("/users/:id/points", adminHandler.AdjustPoints)
			admin.GET("/stats", adminHandler.GetSystemStats)
		}
	}

	return router
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError maps service sentinels to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrOrderNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrPaymentMethodNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrVoucherNotFound):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrOrderExpired):
		status = http.StatusGone
	case errors.Is(err, entity.ErrOrderTerminal),
		errors.Is(err, entity.ErrInvalidOrderState),
		errors.Is(err, entity.ErrNotEnoughSeats),
		errors.Is(err, entity.ErrEventFull),
		errors.Is(err, entity.ErrUserAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrEventNotBookable),
		errors.Is(err, entity.ErrEventDatePast),
		errors.Is(err, entity.ErrPaymentMethodInactive),
		errors.Is(err, entity.ErrInvalidEmail),
		errors.Is(err, entity.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	c.JSON(status, ErrorResponse{Success: false, Error: err.Error()})
}
