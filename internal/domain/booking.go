package domain

import "time" // Timestamps

// BookingStatus is the lifecycle status of a booking
type BookingStatus string

// Valid booking statuses
const (
	StatusBooked    BookingStatus = "booked"    // Initial status for new bookings
	StatusConfirmed BookingStatus = "confirmed" // Booking confirmed by the user
	StatusCancelled BookingStatus = "cancelled" // Booking cancelled, excluded from summary
)

// Valid reports whether s is one of the three known statuses
func (s BookingStatus) Valid() bool {
	return s == StatusBooked || s == StatusConfirmed || s == StatusCancelled
}

// Booking Model
type Booking struct {
	ID         uint          `gorm:"primaryKey"`                      // Primary key
	UserID     uint          `gorm:"not null;index"`                  // Foreign key to the owning User
	CarName    string        `gorm:"size:255;not null"`               // Name of the rented car
	Days       int           `gorm:"not null"`                        // Rental duration in days
	RentPerDay float64       `gorm:"type:decimal(10,2);not null"`     // Rental rate per day
	Status     BookingStatus `gorm:"size:16;not null;default:booked"` // Lifecycle status
	CreatedAt  time.Time     `gorm:"autoCreateTime"`                  // Timestamp of creation
}

// TotalCost computes the derived total cost (never stored)
func (b *Booking) TotalCost() float64 {
	return float64(b.Days) * b.RentPerDay // Total = days * rate per day
}
