package middlewares

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/WeeklyPrayers/initializers"
	"github.com/WeeklyPrayers/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// CheckAuth requires a valid, non-revoked bearer token and loads the user
// onto the context.
func CheckAuth(c *gin.Context) {
	authenticate(c, true)
}

// OptionalAuth loads the user when a valid token is present but lets
// anonymous requests through with an empty role. Read endpoints use this
// to widen what staff can see.
func OptionalAuth(c *gin.Context) {
	authenticate(c, false)
}

func authenticate(c *gin.Context, required bool) {

	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		if required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		c.Set("currentRole", models.Role(""))
		c.Next()
		return
	}

	authToken := strings.Split(authHeader, " ")
	if len(authToken) != 2 || authToken[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
		return
	}

	tokenString := authToken[1]
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	exp, ok := claims["exp"].(float64)
	if !ok || float64(time.Now().Unix()) > exp {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
		return
	}

	// Revocation survives restarts: logout writes tokens into the
	// revoked_token table.
	revoked, err := initializers.DB.From("revoked_token").Where(goqu.C("token").Eq(tokenString)).Count()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check token", "details": err.Error()})
		return
	}
	if revoked > 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
		return
	}

	var user models.User
	_, err = initializers.DB.From("users").Select("*").Where(goqu.C("id").Eq(claims["id"])).ScanStruct(&user)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user", "details": err.Error()})
		return
	}

	if user.ID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set("currentUser", user)
	c.Set("currentRole", user.Role)
	c.Set("token", tokenString)

	c.Next()

}
