package routes

import (
	"accommodation/constants"
	"accommodation/controllers"
	middlewares "accommodation/middleware"
	"accommodation/services"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

func SetupRoutes(router *gin.Engine, svc *services.Services, h *controllers.Controller, m *melody.Melody) {
	auth := func(roles ...string) gin.HandlerFunc {
		return middlewares.AuthMiddleware(svc.Tokens, roles...)
	}
	staff := auth(constants.RoleOwner, constants.RoleSuperadmin)
	customer := auth(constants.RoleCustomer)
	optional := middlewares.OptionalAuth(svc.Tokens)

	router.GET("/ping", controllers.Ping)
	router.GET("/ws", func(c *gin.Context) {
		m.HandleRequest(c.Writer, c.Request)
	})

	api := router.Group("/api")

	api.GET("/property", optional, h.ListProperties)
	api.POST("/property", staff, h.CreateProperty)
	api.GET("/property/:id", h.GetProperty)
	api.PUT("/property/:id", staff, h.UpdateProperty)
	api.DELETE("/property/:id", staff, h.DeleteProperty)
	api.POST("/property/:id/images", staff, h.UploadPropertyImages)
	api.GET("/property/:id/room-types", h.ListRoomTypes)
	api.POST("/property/:id/room-types", staff, h.CreateRoomType)
	api.GET("/property/:id/rooms", h.ListRooms)
	api.GET("/property/:id/ledger", staff, h.PropertyLedger)
	api.GET("/property/:id/reviews", h.PropertyReviews)

	api.PUT("/room-types/:id", staff, h.UpdateRoomType)

	api.GET("/rooms/available", h.AvailableRooms)
	api.GET("/rooms/:id", h.GetRoom)
	api.GET("/rooms/:id/availability", h.RoomAvailability)
	api.GET("/rooms/:id/maintenance", h.ListMaintenance)
	api.POST("/rooms/:id/maintenance", staff, h.CreateMaintenance)
	api.DELETE("/maintenance/:id", staff, h.DeleteMaintenance)

	bookings := api.Group("/bookings")
	bookings.GET("", auth(), h.ListBookings)
	bookings.POST("", auth(constants.RoleCustomer, constants.RoleSuperadmin), h.CreateBooking)
	bookings.GET("/chart", staff, h.BookingChart)
	bookings.POST("/auto-checkin", auth(constants.RoleSuperadmin), h.AutoCheckIn)
	bookings.GET("/:id", auth(), h.GetBooking)
	bookings.PUT("/:id", auth(), h.UpdateBooking)
	bookings.POST("/:id/pay", auth(), h.PayBooking())
	bookings.POST("/:id/cancel", auth(), h.CancelBooking())
	bookings.POST("/:id/refund", auth(), h.RequestRefund())
	bookings.POST("/:id/refund/payout", staff, h.PayoutRefund())

	api.POST("/reviews", customer, h.CreateReview)
	api.GET("/reviews/me", customer, h.MyReviews)
	api.DELETE("/reviews/:id", customer, h.DeleteReview)

	// called by the payment provider, authenticated by the reference it carries
	api.POST("/policy/payment/confirm", h.ConfirmPayment)
}
