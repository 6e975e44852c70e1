package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/WeeklyPrayers/initializers"
	"github.com/WeeklyPrayers/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

// Helper function to generate a valid JWT token
func generateValidToken(userID int, role string, expiresIn time.Duration) string {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "test-secret-key"
		os.Setenv("SECRET", secret)
	}

	claims := jwt.MapClaims{
		"id":   float64(userID),
		"exp":  float64(time.Now().Add(expiresIn).Unix()),
		"role": role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}

// Helper function to generate an expired token
func generateExpiredToken(userID int) string {
	return generateValidToken(userID, "user", -1*time.Hour)
}

// Helper function to generate a token with invalid signature
func generateInvalidSignatureToken(userID int) string {
	claims := jwt.MapClaims{
		"id":   float64(userID),
		"exp":  float64(time.Now().Add(24 * time.Hour).Unix()),
		"role": "user",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("wrong-secret-key"))
	return tokenString
}

var userColumns = []string{
	"id", "username", "password", "email", "name", "role", "created_at", "last_login",
}

// Setup test database
func setupTestDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	goquDB := goqu.New("postgres", db)

	// Replace the global DB connection with our mock
	oldDB := initializers.DB
	initializers.DB = goquDB

	cleanup := func() {
		db.Close()
		initializers.DB = oldDB
	}

	return mock, cleanup
}

// Setup test Gin context
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/test", nil)
	return c, w
}

// Test CheckAuth middleware
func TestCheckAuth(t *testing.T) {
	tests := []struct {
		name              string
		authHeader        string
		mockLookup        bool
		tokenRevoked      bool
		userExists        bool
		userRole          string
		expectedStatus    int
		expectAbort       bool
		expectCurrentUser bool
	}{
		{
			name:           "missing authorization header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid token format - no Bearer prefix",
			authHeader:     "InvalidToken123",
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid token format - wrong prefix",
			authHeader:     "Basic " + generateValidToken(1, "user", 24*time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid JWT signature",
			authHeader:     "Bearer " + generateInvalidSignatureToken(1),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + generateExpiredToken(1),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "revoked token",
			authHeader:     "Bearer " + generateValidToken(1, "user", 24*time.Hour),
			mockLookup:     true,
			tokenRevoked:   true,
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "valid token - user not found in database",
			authHeader:     "Bearer " + generateValidToken(999, "user", 24*time.Hour),
			mockLookup:     true,
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:              "valid token - member",
			authHeader:        "Bearer " + generateValidToken(1, "user", 24*time.Hour),
			mockLookup:        true,
			userExists:        true,
			userRole:          "user",
			expectedStatus:    http.StatusOK,
			expectCurrentUser: true,
		},
		{
			name:              "valid token - worker",
			authHeader:        "Bearer " + generateValidToken(2, "worker", 24*time.Hour),
			mockLookup:        true,
			userExists:        true,
			userRole:          "worker",
			expectedStatus:    http.StatusOK,
			expectCurrentUser: true,
		},
		{
			name:              "valid token - admin",
			authHeader:        "Bearer " + generateValidToken(3, "admin", 24*time.Hour),
			mockLookup:        true,
			userExists:        true,
			userRole:          "admin",
			expectedStatus:    http.StatusOK,
			expectCurrentUser: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, cleanup := setupTestDB(t)
			defer cleanup()

			if tt.mockLookup {
				revoked := 0
				if tt.tokenRevoked {
					revoked = 1
				}
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(revoked))

				if !tt.tokenRevoked {
					now := time.Now()
					userRows := sqlmock.NewRows(userColumns)
					if tt.userExists {
						userRows.AddRow(1, "testuser", "hashedpassword", "test@example.com",
							"Test User", tt.userRole, now, nil)
					}
					mock.ExpectQuery("SELECT").WillReturnRows(userRows)
				}
			}

			c, w := setupTestContext()
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			CheckAuth(c)

			if tt.expectAbort {
				assert.True(t, c.IsAborted(), "Expected request to be aborted")
				assert.Equal(t, tt.expectedStatus, w.Code)
			} else {
				assert.False(t, c.IsAborted(), "Expected request not to be aborted")
			}

			if tt.expectCurrentUser {
				user, exists := c.Get("currentUser")
				assert.True(t, exists, "Expected currentUser to be set")
				assert.Equal(t, models.Role(tt.userRole), user.(models.User).Role)

				role, exists := c.Get("currentRole")
				assert.True(t, exists, "Expected currentRole to be set")
				assert.Equal(t, models.Role(tt.userRole), role.(models.Role))

				token, exists := c.Get("token")
				assert.True(t, exists, "Expected token to be set")
				assert.NotEmpty(t, token)
			} else {
				_, exists := c.Get("currentUser")
				assert.False(t, exists, "Expected currentUser not to be set")
			}
		})
	}
}

// Test OptionalAuth middleware - anonymous readers pass with an empty role
func TestOptionalAuth(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		_, cleanup := setupTestDB(t)
		defer cleanup()

		c, _ := setupTestContext()

		OptionalAuth(c)

		assert.False(t, c.IsAborted())

		role, exists := c.Get("currentRole")
		assert.True(t, exists)
		assert.Equal(t, models.Role(""), role.(models.Role))

		_, exists = c.Get("currentUser")
		assert.False(t, exists)
	})

	t.Run("valid token loads the user", func(t *testing.T) {
		mock, cleanup := setupTestDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT").WillReturnRows(
			sqlmock.NewRows(userColumns).
				AddRow(2, "testworker", "hashedpassword", "worker@example.com",
					"Test Worker", "worker", time.Now(), nil))

		c, _ := setupTestContext()
		c.Request.Header.Set("Authorization", "Bearer "+generateValidToken(2, "worker", 24*time.Hour))

		OptionalAuth(c)

		assert.False(t, c.IsAborted())

		role, exists := c.Get("currentRole")
		assert.True(t, exists)
		assert.Equal(t, models.RoleWorker, role.(models.Role))
	})

	t.Run("a bad token still aborts", func(t *testing.T) {
		_, cleanup := setupTestDB(t)
		defer cleanup()

		c, w := setupTestContext()
		c.Request.Header.Set("Authorization", "Bearer "+generateInvalidSignatureToken(1))

		OptionalAuth(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
