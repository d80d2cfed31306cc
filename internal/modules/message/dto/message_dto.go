package dto

import "time"

// SendMessageRequest is the body of POST /api/message. Token may be empty when the
// caller sends it as a bearer header instead.
type SendMessageRequest struct {
	Token       string `json:"token"`
	ListingID   uint   `json:"listingId" binding:"required"`
	RecipientID uint   `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required,max=2000"`
}

type DeleteMessageRequest struct {
	MessageID uint `json:"messageId" binding:"required"`
}

type SendMessageResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type MessageResponse struct {
	ID              uint      `json:"id"`
	ListingID       uint      `json:"listing_id"`
	ListingTitle    string    `json:"listing_title"`
	SenderUserID    uint      `json:"sender_user_id"`
	SenderName      string    `json:"sender_name"`
	RecipientUserID uint      `json:"recipient_user_id"`
	RecipientName   string    `json:"recipient_name"`
	Content         string    `json:"content"`
	DateCreated     time.Time `json:"date_created"`
}

type MessageListResponse struct {
	Count   int               `json:"count"`
	Results []MessageResponse `json:"results"`
}
