package listing

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"gator.dev/studygator/internal/entity"
	"gator.dev/studygator/internal/modules/listing/dto"
	"gator.dev/studygator/pkg/apperror"
	"gator.dev/studygator/pkg/datauri"
)

// Randomizer picks the fallback sample. *rand.Rand from math/rand/v2 satisfies it.
type Randomizer interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// parseSubject reads the selectedSubject query value; empty and "0" mean no subject.
func parseSubject(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("selectedSubject must be a subject id: %w", apperror.ErrBadRequest)
	}

	subjectID := uint(id)
	return &subjectID, nil
}

// normalizeTerm lowercases the term and drops all whitespace so "Linear  Algebra"
// matches "linearalgebra".
func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), "")
}

func toListingResponse(l *entity.ListingDetail) dto.ListingResponse {
	return dto.ListingResponse{
		ID:               l.ID,
		AssociatedUserID: l.AssociatedUserID,
		SubjectID:        l.SubjectID,
		TutorName:        l.TutorName,
		SubjectName:      l.SubjectName,
		Title:            l.Title,
		SalesPitch:       l.SalesPitch,
		Description:      l.Description,
		Pricing:          l.Pricing,
		Image:            datauri.Encode(l.Image),
		AttachedFile:     datauri.EncodeOptional(l.AttachedFile),
		AttachedVideo:    datauri.EncodeOptional(l.AttachedVideo),
		Approved:         l.Approved,
		DateCreated:      l.DateCreated,
	}
}

func toListingResponses(listings []*entity.ListingDetail) []dto.ListingResponse {
	responses := make([]dto.ListingResponse, 0, len(listings))
	for _, l := range listings {
		responses = append(responses, toListingResponse(l))
	}
	return responses
}

func checkUpload(files dto.ApplyFiles) error {
	if len(files.Image) == 0 {
		return fmt.Errorf("image is required: %w", apperror.ErrBadRequest)
	}
	if mime := datauri.DetectMIME(files.Image); !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("image must be an image, got %s: %w", mime, apperror.ErrBadRequest)
	}
	if len(files.File) > 0 {
		if mime := datauri.DetectMIME(files.File); mime != "application/pdf" {
			return fmt.Errorf("file must be a PDF, got %s: %w", mime, apperror.ErrBadRequest)
		}
	}
	if len(files.Video) > 0 {
		if mime := datauri.DetectMIME(files.Video); !strings.HasPrefix(mime, "video/") {
			return fmt.Errorf("video must be a video, got %s: %w", mime, apperror.ErrBadRequest)
		}
	}
	return nil
}

// nilIfEmpty keeps absent attachments NULL instead of zero-length blobs.
func nilIfEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
