package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gator.dev/studygator/internal/entity"
	"gator.dev/studygator/internal/modules/listing/dto"
	repo "gator.dev/studygator/internal/modules/listing/repository"
	subjectRepo "gator.dev/studygator/internal/modules/subject/repository"
	"gator.dev/studygator/pkg/apperror"
	"gator.dev/studygator/pkg/ratelimit"
	"gator.dev/studygator/pkg/sanitizer"
	"go.uber.org/zap"
)

const applyAction = "apply"

type Service interface {
	Search(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error)
	GetListing(ctx context.Context, id uint) (*dto.ListingResponse, error)
	GetMyListings(ctx context.Context, userID uint) (*dto.ListingListResponse, error)
	CreateListing(ctx context.Context, userID uint, input dto.ApplyInput, files dto.ApplyFiles) (uint, error)
	DeleteListing(ctx context.Context, userID, listingID uint) error
}

type Options struct {
	Limiter     *ratelimit.Limiter
	ApplyWindow time.Duration
	Random      Randomizer
}

type service struct {
	listingRepo repo.ListingRepository
	subjectRepo subjectRepo.SubjectRepository
	sanitizer   *sanitizer.Sanitizer
	limiter     *ratelimit.Limiter
	applyWindow time.Duration
	random      Randomizer
	logger      *zap.Logger
}

func NewService(listingRepo repo.ListingRepository, subjectRepo subjectRepo.SubjectRepository, opts Options, logger *zap.Logger) Service {
	random := opts.Random
	if random == nil {
		random = globalRand{}
	}

	return &service{
		listingRepo: listingRepo,
		subjectRepo: subjectRepo,
		sanitizer:   sanitizer.New(),
		limiter:     opts.Limiter,
		applyWindow: opts.ApplyWindow,
		random:      random,
		logger:      logger,
	}
}

// Search runs the filtered query and falls back to a broader random set when a term
// matched nothing:
//   - term only: every approved listing
//   - subject and term: every approved listing of the subject
//   - subject only: no fallback, the empty result is returned
func (s *service) Search(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error) {
	subjectID, err := parseSubject(query.SelectedSubject)
	if err != nil {
		return nil, err
	}
	term := normalizeTerm(query.SearchTerm)

	listings, err := s.listingRepo.Search(ctx, repo.SearchFilter{SubjectID: subjectID, Term: term})
	if err != nil {
		return nil, err
	}

	random := false
	if len(listings) == 0 && term != "" {
		fallback := repo.SearchFilter{SubjectID: subjectID}
		listings, err = s.listingRepo.Search(ctx, fallback)
		if err != nil {
			return nil, err
		}
		random = true

		s.logger.Debug("search fell back to random listings",
			zap.String("term", term),
			zap.Bool("subject_selected", subjectID != nil),
			zap.Int("candidates", len(listings)))
	}

	results := toListingResponses(listings)
	display := len(results)

	if random && len(results) > 0 {
		s.random.Shuffle(len(results), func(i, j int) {
			results[i], results[j] = results[j], results[i]
		})
		display = 1 + s.random.IntN(len(results))
	}

	return &dto.SearchResponse{
		Count:   len(results),
		Results: results,
		Random:  random,
		Display: display,
	}, nil
}

func (s *service) GetListing(ctx context.Context, id uint) (*dto.ListingResponse, error) {
	listing, err := s.listingRepo.FindApprovedByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("listing not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	resp := toListingResponse(listing)
	return &resp, nil
}

func (s *service) GetMyListings(ctx context.Context, userID uint) (*dto.ListingListResponse, error) {
	listings, err := s.listingRepo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ListingListResponse{
		Count:   len(listings),
		Results: toListingResponses(listings),
	}, nil
}

func (s *service) CreateListing(ctx context.Context, userID uint, input dto.ApplyInput, files dto.ApplyFiles) (uint, error) {
	if err := checkUpload(files); err != nil {
		return 0, err
	}
	if input.Pricing == nil || *input.Pricing < 0 {
		return 0, fmt.Errorf("pricing must be zero or more: %w", apperror.ErrBadRequest)
	}

	listing := &entity.Listing{
		AssociatedUserID: userID,
		SubjectID:        input.SubjectID,
		Title:            s.sanitizer.Text(input.Title),
		SalesPitch:       s.sanitizer.Text(input.SalesPitch),
		Description:      s.sanitizer.Text(input.Description),
		Pricing:          *input.Pricing,
		Image:            files.Image,
		AttachedFile:     nilIfEmpty(files.File),
		AttachedVideo:    nilIfEmpty(files.Video),
		Approved:         false,
	}
	if listing.Title == "" || listing.SalesPitch == "" || listing.Description == "" {
		return 0, fmt.Errorf("title, sales pitch and description must contain text: %w", apperror.ErrBadRequest)
	}

	allowed, err := s.limiter.Allow(ctx, userID, applyAction, s.applyWindow)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return 0, s.rateLimited(ctx, userID)
	}

	created := false
	defer func() {
		if !created {
			if err := s.limiter.Clear(context.WithoutCancel(ctx), userID, applyAction); err != nil {
				s.logger.Warn("failed to clear apply rate limit", zap.Uint("user_id", userID), zap.Error(err))
			}
		}
	}()

	if _, err := s.subjectRepo.FindByID(ctx, input.SubjectID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, fmt.Errorf("subject does not exist: %w", apperror.ErrBadRequest)
		}
		return 0, err
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return 0, err
	}
	created = true

	s.logger.Info("listing submitted for approval",
		zap.Uint("listing_id", listing.ID),
		zap.Uint("user_id", userID),
		zap.Bool("has_file", listing.AttachedFile != nil),
		zap.Bool("has_video", listing.AttachedVideo != nil))

	return listing.ID, nil
}

// DeleteListing removes the caller's listing. Deleting a listing the caller does not own
// is a no-op.
func (s *service) DeleteListing(ctx context.Context, userID, listingID uint) error {
	affected, err := s.listingRepo.DeleteOwned(ctx, userID, listingID)
	if err != nil {
		return err
	}

	s.logger.Info("listing delete requested",
		zap.Uint("listing_id", listingID),
		zap.Uint("user_id", userID),
		zap.Int64("rows_affected", affected))

	return nil
}

func (s *service) rateLimited(ctx context.Context, userID uint) error {
	wait, err := s.limiter.RetryAfter(ctx, userID, applyAction)
	if err != nil || wait <= 0 {
		return fmt.Errorf("please wait before submitting another application: %w", apperror.ErrRateLimitExceeded)
	}
	return fmt.Errorf("please wait %s before submitting another application: %w", wait.Round(time.Second), apperror.ErrRateLimitExceeded)
}
