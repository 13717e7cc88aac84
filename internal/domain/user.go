package domain

import "time" // Timestamps

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`                                    // Primary key
	Username  string    `gorm:"unique;not null"`                               // Unique username
	Password  string    `gorm:"not null"`                                      // Hashed password
	CreatedAt time.Time `gorm:"autoCreateTime"`                                // Timestamp of creation
	Bookings  []Booking `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-many relationship with Booking
}
