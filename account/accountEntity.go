package account

import (
	"printdesk/session"
	"time"
)

type User struct {
	ID     string       `json:"id" gorm:"primary_key;type:varchar(36)"`
	Name   string       `json:"name" gorm:"type:varchar(64);unique_index;not null"`
	Role   session.Role `json:"role" gorm:"type:varchar(16);not null"`
	Secret string       `json:"-" gorm:"type:varchar(72);not null"`

	CreatedAt time.Time `json:"createdAt"`
}

type UserInfo struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Role session.Role `json:"role"`
}

type UserCreation struct {
	Name     string       `json:"name" validate:"required,lte=64"`
	Password string       `json:"password" validate:"required,gte=6,lte=64"`
	Role     session.Role `json:"role" validate:"required"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret" binding:"required"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6,lte=64"`
}

func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Role: u.Role}
}
