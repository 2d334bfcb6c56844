package models

import (
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypePassenger UserType = "passenger"
	UserTypeDriver    UserType = "driver"
)

type User struct {
	gorm.Model
	Username        string `json:"username" gorm:"column:username;unique;not null"`
	FirstName       string `json:"firstName" gorm:"column:first_name"`
	LastName        string `json:"lastName" gorm:"column:last_name"`
	PhoneNumber     string `json:"phoneNumber" gorm:"column:phone_number"`
	ProfileImageURL string `json:"profileImageUrl" gorm:"column:profile_image_url"`
	UserType        string `json:"userType" gorm:"column:user_type;not null;default:'passenger'"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
