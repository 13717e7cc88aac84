package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"car_rental/internal/domain" // Importing domain models
	"car_rental/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	CarName    string  `json:"carName" binding:"required"`    // Car name must be provided
	Days       int     `json:"days" binding:"required"`       // Rental duration in days
	RentPerDay float64 `json:"rentPerDay" binding:"required"` // Rental rate per day
}

// UpdateBookingRequest represents a partial booking update; nil means "field absent"
type UpdateBookingRequest struct {
	CarName    *string  `json:"carName"`    // New car name, if provided
	Days       *int     `json:"days"`       // New rental duration, if provided
	RentPerDay *float64 `json:"rentPerDay"` // New rental rate, if provided
	Status     *string  `json:"status"`     // New lifecycle status, if provided
}

// BookingItem is a booking as returned to the caller, with the computed total
type BookingItem struct {
	ID         uint                 `json:"id"`           // Booking ID
	CarName    string               `json:"car_name"`     // Car name
	Days       int                  `json:"days"`         // Rental duration in days
	RentPerDay float64              `json:"rent_per_day"` // Rental rate per day
	Status     domain.BookingStatus `json:"status"`       // Lifecycle status
	TotalCost  float64              `json:"totalCost"`    // Computed total cost
}

// BookingSummary is the aggregate view over a user's active bookings
type BookingSummary struct {
	UserID           uint    `json:"userId"`           // User ID
	Username         string  `json:"username"`         // Username
	TotalBookings    int     `json:"totalBookings"`    // Count of active bookings
	TotalAmountSpent float64 `json:"totalAmountSpent"` // Sum of totals over active bookings
}

// toBookingItem converts a stored booking into its response form
func toBookingItem(b domain.Booking) BookingItem {
	return BookingItem{
		ID:         b.ID,          // Booking ID
		CarName:    b.CarName,     // Car name
		Days:       b.Days,        // Rental duration
		RentPerDay: b.RentPerDay,  // Rental rate
		Status:     b.Status,      // Lifecycle status
		TotalCost:  b.TotalCost(), // Computed, never stored
	}
}

// principalFromContext reads the authenticated user placed in the context by the JWT middleware
func principalFromContext(c *gin.Context) (uint, string, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	if !exists {
		return 0, "", false // No authenticated user
	}
	id, ok := userID.(uint) // The middleware stores a uint
	if !ok {
		return 0, "", false // Unexpected type
	}
	username := c.GetString("username") // Username claim
	return id, username, true
}

// invalidateBookingCache drops the cached list and summary for a user after a mutation
func invalidateBookingCache(c *gin.Context, userID uint) {
	// The Redis client is injected into the context by the route group
	if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
		ctx := context.Background()                                      // Context for Redis operations
		_ = utils.DeleteCache(ctx, rdb, utils.BookingListKey(userID))    // Invalidate list cache
		_ = utils.DeleteCache(ctx, rdb, utils.BookingSummaryKey(userID)) // Invalidate summary cache
	}
}

// CreateBookingHandler creates a booking owned by the authenticated user
func CreateBookingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := principalFromContext(c) // Get authenticated user
		// Check if the user is authenticated
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		var req CreateBookingRequest // Bind JSON request to struct
		// Validate request: car name non-empty, days and rate strictly positive
		if err := c.ShouldBindJSON(&req); err != nil || req.Days <= 0 || req.RentPerDay <= 0 {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid inputs"})
			return
		}
		// New booking owned by the caller, status defaults to booked
		booking := domain.Booking{
			UserID:     userID,              // Owning user
			CarName:    req.CarName,         // Car name
			Days:       req.Days,            // Rental duration
			RentPerDay: req.RentPerDay,      // Rental rate
			Status:     domain.StatusBooked, // Initial status
		}
		// Persist the booking
		if err := db.Create(&booking).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owning user ID
				"error":   err.Error(), // Error message
			}).Error("Failed to create booking")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,          // Owning user ID
			"booking_id": booking.ID,      // New booking ID
			"car_name":   booking.CarName, // Car name
		}).Info("Booking created")
		invalidateBookingCache(c, userID) // Drop stale cached reads
		// Return success response with the computed total cost
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
			"message":   "Booking created successfully", // Confirmation message
			"bookingId": booking.ID,                     // New booking ID
			"totalCost": booking.TotalCost(),            // Computed total cost
		}})
	}
}

// GetBookingsHandler returns the caller's bookings: all, one by id, or a summary
func GetBookingsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, username, ok := principalFromContext(c) // Get authenticated user
		// Check if the user is authenticated
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		ctx := context.Background() // Context for Redis operations
		// Summary mode: aggregate over active bookings
		if c.Query("summary") == "true" {
			cacheKey := utils.BookingSummaryKey(userID) // Cache key for the summary
			var summary BookingSummary                  // Summary struct to hold data
			// Try to get from cache
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &summary); err == nil && found {
				// Return cached summary
				c.JSON(http.StatusOK, gin.H{"success": true, "data": summary, "cached": true})
				return
			}
			var bookings []domain.Booking // Active bookings of the caller
			// Cancelled bookings are excluded from the aggregate
			if err := db.Where("user_id = ? AND status IN ?", userID,
				[]domain.BookingStatus{domain.StatusBooked, domain.StatusConfirmed}).
				Find(&bookings).Error; err != nil {
				// If fetching fails, return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
				return
			}
			summary = BookingSummary{UserID: userID, Username: username} // Aggregate result
			// Count and sum the computed totals
			for _, b := range bookings {
				summary.TotalBookings++                   // Count active bookings
				summary.TotalAmountSpent += b.TotalCost() // Sum of days * rate
			}
			_ = utils.SetCache(ctx, rdb, cacheKey, summary, utils.CacheTTL)                 // Cache the summary
			c.JSON(http.StatusOK, gin.H{"success": true, "data": summary, "cached": false}) // Return summary
			return
		}
		// Single mode: fetch one booking by id, scoped to the caller
		if idStr := c.Query("bookingId"); idStr != "" {
			bookingID, err := strconv.Atoi(idStr) // Parse booking id
			if err != nil {
				// Non-numeric id is a malformed request
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booking id"})
				return
			}
			var booking domain.Booking // Booking struct to hold data
			// Ownership is enforced in the query itself: another user's booking is simply not found
			if err := db.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Absent or foreign booking: not found
					c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
					return
				}
				// Any other lookup error is a server-side failure
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
				return
			}
			// Return the booking as a single-element collection
			c.JSON(http.StatusOK, gin.H{"success": true, "data": []BookingItem{toBookingItem(booking)}})
			return
		}
		// Default mode: all bookings owned by the caller
		cacheKey := utils.BookingListKey(userID) // Cache key for the list
		var items []BookingItem                  // Response items
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &items); err == nil && found {
			// Return cached list
			c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "cached": true})
			return
		}
		var bookings []domain.Booking // Bookings of the caller
		// Fetch all bookings owned by the caller
		if err := db.Where("user_id = ?", userID).Find(&bookings).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		items = make([]BookingItem, len(bookings)) // Empty collection when none exist, not an error
		// Enrich each booking with its computed total
		for i, b := range bookings {
			items[i] = toBookingItem(b) // Response form
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, items, utils.CacheTTL)                 // Cache the list
		c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "cached": false}) // Return the list
	}
}

// UpdateBookingHandler applies a partial update to one of the caller's bookings
func UpdateBookingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := principalFromContext(c) // Get authenticated user
		// Check if the user is authenticated
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		bookingID, err := strconv.Atoi(c.Param("bookingId")) // Parse booking id from the path
		if err != nil {
			// Non-numeric id is a malformed request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booking id"})
			return
		}
		var req UpdateBookingRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid Request Body"})
			return
		}
		// At least one field must be present
		if req.CarName == nil && req.Days == nil && req.RentPerDay == nil && req.Status == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No fields to update"})
			return
		}
		// Provided fields must still satisfy the booking invariants
		if req.CarName != nil && *req.CarName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid inputs"})
			return
		}
		if (req.Days != nil && *req.Days <= 0) || (req.RentPerDay != nil && *req.RentPerDay <= 0) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid inputs"})
			return
		}
		if req.Status != nil && !domain.BookingStatus(*req.Status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status"})
			return
		}
		var booking domain.Booking // Booking struct to hold data
		// Lookup the booking by id alone; ownership is checked afterwards
		if err := db.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No such booking
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
				return
			}
			// Any other lookup error is a server-side failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		// Only the owner may mutate a booking
		if booking.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Forbidden"})
			return
		}
		// Apply only the provided fields, the rest keep their prior values
		if req.CarName != nil {
			booking.CarName = *req.CarName // New car name
		}
		if req.Days != nil {
			booking.Days = *req.Days // New rental duration
		}
		if req.RentPerDay != nil {
			booking.RentPerDay = *req.RentPerDay // New rental rate
		}
		if req.Status != nil {
			booking.Status = domain.BookingStatus(*req.Status) // New lifecycle status
		}
		// Persist the updated record
		if err := db.Save(&booking).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,      // Owning user ID
				"booking_id": booking.ID,  // Booking ID
				"error":      err.Error(), // Error message
			}).Error("Failed to update booking")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		// Log successful update
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,         // Owning user ID
			"booking_id": booking.ID,     // Booking ID
			"status":     booking.Status, // Status after the update
		}).Info("Booking updated")
		invalidateBookingCache(c, userID) // Drop stale cached reads
		// Return the full updated record with its recomputed total
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"message": "Booking updated successfully", // Confirmation message
			"booking": toBookingItem(booking),         // Updated booking
		}})
	}
}

// DeleteBookingHandler permanently removes one of the caller's bookings
func DeleteBookingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := principalFromContext(c) // Get authenticated user
		// Check if the user is authenticated
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		bookingID, err := strconv.Atoi(c.Param("bookingId")) // Parse booking id from the path
		if err != nil {
			// Non-numeric id is a malformed request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booking id"})
			return
		}
		var booking domain.Booking // Booking struct to hold data
		// Lookup the booking by id alone; ownership is checked afterwards
		if err := db.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Already gone: not found, deletion is idempotent-safe
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
				return
			}
			// Any other lookup error is a server-side failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		// Only the owner may delete a booking
		if booking.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Forbidden"})
			return
		}
		// Remove the record permanently; bookings have no dependents
		if err := db.Delete(&booking).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,      // Owning user ID
				"booking_id": booking.ID,  // Booking ID
				"error":      err.Error(), // Error message
			}).Error("Failed to delete booking")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		// Log successful deletion
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,     // Owning user ID
			"booking_id": booking.ID, // Deleted booking ID
		}).Info("Booking deleted")
		invalidateBookingCache(c, userID) // Drop stale cached reads
		// Return confirmation message
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"message": "Booking deleted successfully", // Confirmation message
		}})
	}
}
