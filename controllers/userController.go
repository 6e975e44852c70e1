package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/WeeklyPrayers/initializers"
	"github.com/WeeklyPrayers/models"
	"github.com/doug-martin/goqu/v9"
	"golang.org/x/crypto/bcrypt"
)

// UserSignup creates an account. There is no self-service signup; an admin
// provisions staff accounts and assigns roles.
func UserSignup(c *gin.Context) {
	var body models.UserSignup

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.Username == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required."})
		return
	}

	if body.Role == "" {
		body.Role = models.RoleUser
	}
	if !body.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be one of: user, worker, admin."})
		return
	}

	userCount, err := initializers.DB.From("users").Select("username").Where(goqu.C("username").Eq(body.Username)).Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if userCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists."})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newUser := models.User{
		Username: body.Username,
		Password: string(passwordHash),
		Email:    body.Email,
		Name:     body.Name,
		Role:     body.Role,
	}

	insert := initializers.DB.Insert("users").Rows(newUser).Executor()
	if _, err := insert.Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "User created successfully.",
		"username": body.Username,
		"role":     body.Role,
	})
}

func GetUsers(c *gin.Context) {
	var users []models.User

	err := initializers.DB.From("users").Select("*").Order(goqu.C("created_at").Desc()).ScanStructsContext(c, &users)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	var user models.User
	_, err = initializers.DB.From("users").Select("*").Where(goqu.C("id").Eq(userID)).ScanStruct(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user", "details": err.Error()})
		return
	}

	if user.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func UpdateUserRole(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	var body models.RoleUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !body.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be one of: user, worker, admin."})
		return
	}

	// Locking yourself out of admin takes a second admin.
	if userID == currentUser.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
		return
	}

	update := initializers.DB.Update("users").
		Set(goqu.Record{"role": body.Role}).
		Where(goqu.C("id").Eq(userID)).
		Executor()

	result, err := update.Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role", "details": err.Error()})
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully.", "userId": userID, "role": body.Role})
}
