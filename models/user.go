package models

import "time"

type User struct {
	ID         int        `json:"id" goqu:"skipinsert"`
	Username   string     `json:"username"`
	Password   string     `json:"-"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	Created_At time.Time  `json:"createdAt" goqu:"skipinsert"`
	Last_Login *time.Time `json:"lastLogin"`
}

type UserSignup struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RoleUpdate struct {
	Role Role `json:"role"`
}
