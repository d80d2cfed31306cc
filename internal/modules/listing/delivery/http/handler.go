package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"gator.dev/studygator/internal/modules/listing/dto"
	listing "gator.dev/studygator/internal/modules/listing/service"
	"gator.dev/studygator/pkg/apperror"
	"gator.dev/studygator/pkg/response"
	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	service        listing.Service
	maxUploadBytes int64
}

func NewListingHandler(service listing.Service, maxUploadBytes int64) *ListingHandler {
	return &ListingHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *ListingHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	result, err := h.service.GetListing(c.Request.Context(), uint(id))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ListingHandler) GetMyListings(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.GetMyListings(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Apply accepts a multipart tutor application: text fields plus an "image" part and
// optional "file" (PDF) and "video" parts.
func (h *ListingHandler) Apply(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var input dto.ApplyInput
	if err := c.ShouldBind(&input); err != nil {
		if tooLarge(err) {
			response.ResponseError(c, h.tooLargeError())
			return
		}
		response.BindingError(c, err)
		return
	}

	var files dto.ApplyFiles
	for name, dst := range map[string]*[]byte{"image": &files.Image, "file": &files.File, "video": &files.Video} {
		if *dst, err = readFormFile(c, name); err != nil {
			if tooLarge(err) {
				response.ResponseError(c, h.tooLargeError())
				return
			}
			response.ResponseError(c, fmt.Errorf("could not read %s: %w", name, apperror.ErrBadRequest))
			return
		}
	}

	id, err := h.service.CreateListing(c.Request.Context(), userID, input, files)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ApplyResponse{
		Message: "application submitted for review",
		ID:      id,
	})
}

func (h *ListingHandler) DeleteListing(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.DeleteListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), userID, req.ListingID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}

func (h *ListingHandler) tooLargeError() error {
	return apperror.New(http.StatusRequestEntityTooLarge,
		fmt.Sprintf("upload exceeds %d MB", h.maxUploadBytes>>20), apperror.ErrPayloadTooLarge)
}

// readFormFile buffers one multipart part in memory. A missing part yields nil.
func readFormFile(c *gin.Context, name string) ([]byte, error) {
	header, err := c.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
