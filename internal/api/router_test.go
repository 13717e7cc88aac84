package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"car_rental/internal/domain"
	"car_rental/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "api-test-secret"

// newTestRouter wires the full route table the way cmd/server does, against
// an in-memory sqlite store and a miniredis cache.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r, _ := newTestRouterWithDB(t)
	return r
}

func newTestRouterWithDB(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled :memory: sqlite gives every connection its own empty database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Booking{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.POST("/api/v1/users/signup", SignUpHandler(db))
	r.POST("/api/v1/users/signin", SignInHandler(db, testSecret))

	bookingGroup := r.Group("/api/v1/bookings")
	bookingGroup.Use(middleware.JWTAuthMiddleware(testSecret), func(c *gin.Context) {
		c.Set("redisClient", rdb)
		c.Next()
	})
	bookingGroup.POST("", CreateBookingHandler(db))
	bookingGroup.GET("", GetBookingsHandler(db, rdb))
	bookingGroup.PUT("/:bookingId", UpdateBookingHandler(db))
	bookingGroup.DELETE("/:bookingId", DeleteBookingHandler(db))
	return r, db
}

// doJSON performs a JSON request against the router, attaching the token when given
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// apiResponse is the common response envelope
type apiResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Cached  *bool           `json:"cached"`
}

// decodeResponse unmarshals the envelope from a recorded response
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// signUpAndSignIn registers a fresh user and returns a valid token for it
func signUpAndSignIn(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	creds := gin.H{"username": username, "password": password}

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/signup", "", creds)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/users/signin", "", creds)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	resp := decodeResponse(t, w)
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}
