package dto

type SubjectResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
