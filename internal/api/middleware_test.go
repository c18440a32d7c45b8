package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coachkit/trainer-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func signToken(t *testing.T, secret string, userID string, role domain.Role, expiry time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	protected := router.Group("/", AuthMiddleware(testJWTSecret))
	protected.GET("/me", func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": userID})
	})
	protected.GET("/trainer-only", RoleMiddleware(domain.RoleTrainer), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter()

	validTrainer := signToken(t, testJWTSecret, "6645d3a9e7a1b2c3d4e5f601", domain.RoleTrainer, time.Hour)
	validClient := signToken(t, testJWTSecret, "6645d3a9e7a1b2c3d4e5f602", domain.RoleClient, time.Hour)
	expired := signToken(t, testJWTSecret, "6645d3a9e7a1b2c3d4e5f601", domain.RoleTrainer, -time.Minute)
	wrongSecret := signToken(t, "other-secret", "6645d3a9e7a1b2c3d4e5f601", domain.RoleTrainer, time.Hour)

	testCases := []struct {
		name               string
		path               string
		authHeader         string
		expectedStatusCode int
		expectedBodyPart   string
	}{
		{
			name:               "MissingHeader",
			path:               "/me",
			expectedStatusCode: http.StatusUnauthorized,
			expectedBodyPart:   "Authorization header is missing",
		},
		{
			name:               "MalformedHeader",
			path:               "/me",
			authHeader:         validTrainer,
			expectedStatusCode: http.StatusUnauthorized,
			expectedBodyPart:   "Bearer",
		},
		{
			name:               "WrongSecret",
			path:               "/me",
			authHeader:         "Bearer " + wrongSecret,
			expectedStatusCode: http.StatusUnauthorized,
			expectedBodyPart:   "Invalid token",
		},
		{
			name:               "ExpiredToken",
			path:               "/me",
			authHeader:         "Bearer " + expired,
			expectedStatusCode: http.StatusUnauthorized,
			expectedBodyPart:   "Token has expired",
		},
		{
			name:               "ValidToken",
			path:               "/me",
			authHeader:         "Bearer " + validTrainer,
			expectedStatusCode: http.StatusOK,
			expectedBodyPart:   "6645d3a9e7a1b2c3d4e5f601",
		},
		{
			name:               "TrainerRouteAsTrainer",
			path:               "/trainer-only",
			authHeader:         "Bearer " + validTrainer,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "TrainerRouteAsClient",
			path:               "/trainer-only",
			authHeader:         "Bearer " + validClient,
			expectedStatusCode: http.StatusForbidden,
			expectedBodyPart:   "Access denied",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedBodyPart != "" {
				assert.Contains(t, rec.Body.String(), tc.expectedBodyPart)
			}
		})
	}
}
