package controllers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/WeeklyPrayers/initializers"
	"github.com/WeeklyPrayers/models"
	"github.com/doug-martin/goqu/v9"
	"golang.org/x/crypto/bcrypt"
)

func UserLogin(c *gin.Context) {
	var body models.Login

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dbUser models.User
	_, err := initializers.DB.From("users").Select("*").Where(goqu.C("username").Eq(body.Username)).ScanStruct(&dbUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if dbUser.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbUser.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	update := initializers.DB.Update("users").
		Set(goqu.Record{"last_login": time.Now()}).
		Where(goqu.C("id").Eq(dbUser.ID)).
		Executor()
	if _, err := update.Exec(); err != nil {
		log.Println("Failed to record last login:", err)
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   dbUser.ID,
		"role": string(dbUser.Role),
		"exp":  expiresAt.Unix(),
	})

	tokenString, err := token.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     tokenString,
		"expiresAt": expiresAt,
		"user":      dbUser,
	})
}

// UserLogout persists the presented token into revoked_token so the
// revocation survives restarts. Expired rows are purged on the way.
func UserLogout(c *gin.Context) {
	tokenString := c.MustGet("token").(string)

	expiresAt := time.Now().Add(24 * time.Hour)
	if token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{}); err == nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiresAt = time.Unix(int64(exp), 0)
			}
		}
	}

	insert := initializers.DB.Insert("revoked_token").
		Rows(goqu.Record{"token": tokenString, "expires_at": expiresAt}).
		OnConflict(goqu.DoNothing()).
		Executor()
	if _, err := insert.Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token", "details": err.Error()})
		return
	}

	cleanup := initializers.DB.Delete("revoked_token").
		Where(goqu.C("expires_at").Lt(time.Now())).
		Executor()
	if _, err := cleanup.Exec(); err != nil {
		log.Println("Failed to purge expired revoked tokens:", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

func GetCurrentUser(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	c.JSON(http.StatusOK, gin.H{"user": user})
}
