package entity

import "time"

type Message struct {
	ID              uint      `gorm:"primaryKey"`
	ListingID       uint      `gorm:"not null"`
	SenderUserID    uint      `gorm:"not null"`
	RecipientUserID uint      `gorm:"not null;index"`
	Content         string    `gorm:"type:text;not null"`
	DateCreated     time.Time `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageDetail is a message joined with participant names and the listing title.
type MessageDetail struct {
	Message       `gorm:"embedded"`
	SenderName    string
	RecipientName string
	ListingTitle  string
}
