package dto

import "time"

type SearchQuery struct {
	SelectedSubject string `form:"selectedSubject"`
	SearchTerm      string `form:"searchTerm" binding:"max=200"`
}

// ApplyInput holds the text fields of a tutor application form.
type ApplyInput struct {
	SubjectID   uint     `form:"subjectId" binding:"required"`
	Title       string   `form:"title" binding:"required,max=120"`
	SalesPitch  string   `form:"salesPitch" binding:"required,max=255"`
	Description string   `form:"description" binding:"required,max=5000"`
	Pricing     *float64 `form:"pricing" binding:"required,gte=0,lte=99999999"`
}

// ApplyFiles holds the uploaded parts of a tutor application, buffered in memory.
type ApplyFiles struct {
	Image []byte
	File  []byte
	Video []byte
}

type DeleteListingRequest struct {
	ListingID uint `json:"listingId" binding:"required"`
}

type ApplyResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type ListingResponse struct {
	ID               uint      `json:"id"`
	AssociatedUserID uint      `json:"associated_user_id"`
	SubjectID        uint      `json:"subject_id"`
	TutorName        string    `json:"tutor_name"`
	SubjectName      string    `json:"subject_name"`
	Title            string    `json:"title"`
	SalesPitch       string    `json:"sales_pitch"`
	Description      string    `json:"description"`
	Pricing          float64   `json:"pricing"`
	Image            string    `json:"image"`
	AttachedFile     *string   `json:"attached_file"`
	AttachedVideo    *string   `json:"attached_video"`
	Approved         bool      `json:"approved"`
	DateCreated      time.Time `json:"date_created"`
}

// SearchResponse is the search result. When Random is set the results are a shuffled
// fallback set and the client shows only the first Display of them.
type SearchResponse struct {
	Count   int               `json:"count"`
	Results []ListingResponse `json:"results"`
	Random  bool              `json:"random"`
	Display int               `json:"display"`
}

type ListingListResponse struct {
	Count   int               `json:"count"`
	Results []ListingResponse `json:"results"`
}
