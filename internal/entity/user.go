package entity

import "time"

type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"size:255;not null" json:"-"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
}

func (User) TableName() string {
	return "users"
}
