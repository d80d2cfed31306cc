package entity

import "time"

// Listing is a tutor application. Only approved listings are publicly visible.
type Listing struct {
	ID               uint      `gorm:"primaryKey"`
	AssociatedUserID uint      `gorm:"not null;index"`
	SubjectID        uint      `gorm:"not null"`
	Title            string    `gorm:"size:120;not null"`
	SalesPitch       string    `gorm:"size:255;not null"`
	Description      string    `gorm:"type:text;not null"`
	Pricing          float64   `gorm:"type:numeric(10,2);not null"`
	Image            []byte    `gorm:"not null"`
	AttachedFile     []byte    // nullable
	AttachedVideo    []byte    // nullable
	Approved         bool      `gorm:"not null"`
	DateCreated      time.Time `gorm:"autoCreateTime"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingDetail is a listing joined with its tutor and subject names.
type ListingDetail struct {
	Listing     `gorm:"embedded"`
	TutorName   string
	SubjectName string
}
