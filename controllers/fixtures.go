package controllers

import (
	"time"

	"github.com/WeeklyPrayers/models"
	"golang.org/x/crypto/bcrypt"
)

// MockUser returns a plain member account for testing
func MockUser() models.User {
	return models.User{
		ID:         1,
		Username:   "testuser",
		Email:      "test@example.com",
		Name:       "Test User",
		Role:       models.RoleUser,
		Created_At: time.Now(),
	}
}

// MockWorker returns a staff account for testing
func MockWorker() models.User {
	return models.User{
		ID:         2,
		Username:   "testworker",
		Email:      "worker@example.com",
		Name:       "Test Worker",
		Role:       models.RoleWorker,
		Created_At: time.Now(),
	}
}

// MockAdmin returns a pastor-level account for testing
func MockAdmin() models.User {
	return models.User{
		ID:         3,
		Username:   "testadmin",
		Email:      "admin@example.com",
		Name:       "Test Admin",
		Role:       models.RoleAdmin,
		Created_At: time.Now(),
	}
}

// MockUserWithPassword returns a member account with a real bcrypt hash
// for login tests. The password is "password123".
func MockUserWithPassword() models.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := MockUser()
	user.Password = string(hashedPassword)
	return user
}
