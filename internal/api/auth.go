package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"car_rental/internal/domain" // Importing domain models
	"car_rental/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for sign-up
type SignUpRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for sign-in
type SignInRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// SignUpHandler registers a new user account
func SignUpHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid Request Body"})
			return
		}
		username := strings.ToLower(req.Username) // Usernames are case-insensitive
		// Check if the username is already taken
		var existing domain.User
		if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
			// If a row came back, the username is taken
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "User already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Any other lookup error is a server-side failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		// Hash the password before storing it
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		user := domain.User{Username: username, Password: string(hash)} // New account record
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Unique index still guards against races; report it as a conflict
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "User already exists"})
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("User registered")
		// Return success response with the new user ID
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
			"message": "User created successfully", // Confirmation message
			"userId":  user.ID,                     // New user ID
		}})
	}
}

// SignInHandler authenticates a user and returns a signed JWT token
func SignInHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignInRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username and password are required"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid Username"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Incorrect Password"})
			return
		}
		// A missing signing secret is a server misconfiguration, not a caller error
		if jwtSecret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error: JWT secret is not set"})
			return
		}
		// Generate JWT token carrying the user ID and username
		token, err := utils.GenerateJWT(user.ID, user.Username, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"message": "Login successful", // Confirmation message
			"token":   token,              // Signed JWT token
		}})
	}
}
