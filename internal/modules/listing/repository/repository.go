package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gator.dev/studygator/internal/entity"
	"gator.dev/studygator/pkg/apperror"
	"gorm.io/gorm"
)

// SearchFilter narrows an approved-listing search. Term must already be lowercased and
// stripped of whitespace.
type SearchFilter struct {
	SubjectID *uint
	Term      string
}

type ListingRepository interface {
	Search(ctx context.Context, filter SearchFilter) ([]*entity.ListingDetail, error)
	FindApprovedByID(ctx context.Context, id uint) (*entity.ListingDetail, error)
	FindByOwner(ctx context.Context, userID uint) ([]*entity.ListingDetail, error)
	FindByID(ctx context.Context, id uint) (*entity.Listing, error)
	Create(ctx context.Context, listing *entity.Listing) error
	DeleteOwned(ctx context.Context, userID, listingID uint) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// searchableText is the normalized haystack a search term is matched against.
const searchableText = `REGEXP_REPLACE(LOWER(s.name || l.title || l.sales_pitch || l.description || u.name), '\s', '', 'g')`

func (r *listingRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("listings AS l").
		Select("l.*, u.name AS tutor_name, s.name AS subject_name").
		Joins("JOIN users u ON u.id = l.associated_user_id").
		Joins("JOIN subjects s ON s.id = l.subject_id")
}

func (r *listingRepository) Search(ctx context.Context, filter SearchFilter) ([]*entity.ListingDetail, error) {
	query := r.detailQuery(ctx).Where("l.approved = ?", true)

	if filter.SubjectID != nil {
		query = query.Where("l.subject_id = ?", *filter.SubjectID)
	}

	if filter.Term != "" {
		query = query.Where(searchableText+` LIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Term)+"%")
	}

	var listings []*entity.ListingDetail
	if err := query.Order("l.date_created DESC").Order("l.id DESC").Scan(&listings).Error; err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) FindApprovedByID(ctx context.Context, id uint) (*entity.ListingDetail, error) {
	var listings []*entity.ListingDetail
	if err := r.detailQuery(ctx).
		Where("l.id = ? AND l.approved = ?", id, true).
		Limit(1).
		Scan(&listings).Error; err != nil {
		return nil, fmt.Errorf("find listing %d: %w", id, err)
	}

	if len(listings) == 0 {
		return nil, apperror.ErrNotFound
	}
	return listings[0], nil
}

func (r *listingRepository) FindByOwner(ctx context.Context, userID uint) ([]*entity.ListingDetail, error) {
	var listings []*entity.ListingDetail
	if err := r.detailQuery(ctx).
		Where("l.associated_user_id = ?", userID).
		Order("l.date_created DESC").
		Order("l.id DESC").
		Scan(&listings).Error; err != nil {
		return nil, fmt.Errorf("find listings of user %d: %w", userID, err)
	}
	return listings, nil
}

// FindByID loads a listing without its binary columns.
func (r *listingRepository) FindByID(ctx context.Context, id uint) (*entity.Listing, error) {
	var listing entity.Listing
	if err := r.db.WithContext(ctx).
		Select("id", "associated_user_id", "subject_id", "title", "approved", "date_created").
		First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("find listing %d: %w", id, err)
	}
	return &listing, nil
}

// Create inserts every column; absent attachments are stored as NULL.
func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// DeleteOwned deletes the listing only when userID owns it and reports the affected rows.
func (r *listingRepository) DeleteOwned(ctx context.Context, userID, listingID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND associated_user_id = ?", listingID, userID).
		Delete(&entity.Listing{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete listing %d: %w", listingID, result.Error)
	}
	return result.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
