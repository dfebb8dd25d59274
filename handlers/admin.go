package handlers

import (
	"net/http"

	"admissions/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Bookings booking.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bs booking.Service) *AdminHandler {
	return &AdminHandler{Bookings: bs}
}

// ListBookingsByDateHandler returns every booking for a date, cancelled ones
// included, in slot order.
func (ah *AdminHandler) ListBookingsByDateHandler(c *gin.Context) {
	date := c.Param("date")
	bookings, err := ah.Bookings.BookingsForDate(c.Request.Context(), date)
	if err != nil {
		zap.L().Error("Failed to fetch bookings for date",
			zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "bookings": bookings})
}

// CancelBookingHandler cancels the confirmed booking at date/time regardless
// of owner. The freed slot becomes bookable again.
func (ah *AdminHandler) CancelBookingHandler(c *gin.Context) {
	date := c.Param("date")
	slot := c.Param("time")

	ok, err := ah.Bookings.CancelAnyBooking(c.Request.Context(), date, slot)
	if err != nil {
		zap.L().Error("Failed to cancel booking",
			zap.String("date", date), zap.String("time", slot), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No confirmed booking at that slot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "time": slot, "status": "cancelled"})
}
