package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gator.dev/studygator/internal/entity"
	listingRepo "gator.dev/studygator/internal/modules/listing/repository"
	"gator.dev/studygator/internal/modules/message/dto"
	repo "gator.dev/studygator/internal/modules/message/repository"
	userRepo "gator.dev/studygator/internal/modules/user/repository"
	"gator.dev/studygator/pkg/apperror"
	"gator.dev/studygator/pkg/ratelimit"
	"gator.dev/studygator/pkg/sanitizer"
	"go.uber.org/zap"
)

const sendAction = "message"

type Service interface {
	SendMessage(ctx context.Context, senderID uint, req dto.SendMessageRequest) (uint, error)
	GetInbox(ctx context.Context, userID uint) (*dto.MessageListResponse, error)
	GetSent(ctx context.Context, userID uint) (*dto.MessageListResponse, error)
	DeleteMessage(ctx context.Context, userID, messageID uint) error
}

type service struct {
	messageRepo repo.MessageRepository
	listingRepo listingRepo.ListingRepository
	userRepo    userRepo.UserRepository
	sanitizer   *sanitizer.Sanitizer
	limiter     *ratelimit.Limiter
	window      time.Duration
	logger      *zap.Logger
}

func NewService(
	messageRepo repo.MessageRepository,
	listingRepo listingRepo.ListingRepository,
	userRepo userRepo.UserRepository,
	limiter *ratelimit.Limiter,
	window time.Duration,
	logger *zap.Logger,
) Service {
	return &service{
		messageRepo: messageRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		sanitizer:   sanitizer.New(),
		limiter:     limiter,
		window:      window,
		logger:      logger,
	}
}

func (s *service) SendMessage(ctx context.Context, senderID uint, req dto.SendMessageRequest) (uint, error) {
	content := s.sanitizer.Text(req.Content)
	if content == "" {
		return 0, fmt.Errorf("message content is required: %w", apperror.ErrBadRequest)
	}

	if _, err := s.listingRepo.FindByID(ctx, req.ListingID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, fmt.Errorf("listing not found: %w", apperror.ErrNotFound)
		}
		return 0, err
	}
	if _, err := s.userRepo.FindByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, fmt.Errorf("recipient not found: %w", apperror.ErrNotFound)
		}
		return 0, err
	}

	allowed, err := s.limiter.Allow(ctx, senderID, sendAction, s.window)
	if err != nil {
		return 0, err
	}
	if !allowed {
		wait, err := s.limiter.RetryAfter(ctx, senderID, sendAction)
		if err != nil || wait <= 0 {
			return 0, fmt.Errorf("please wait before sending another message: %w", apperror.ErrRateLimitExceeded)
		}
		return 0, fmt.Errorf("please wait %s before sending another message: %w", wait.Round(time.Second), apperror.ErrRateLimitExceeded)
	}

	message := &entity.Message{
		ListingID:       req.ListingID,
		SenderUserID:    senderID,
		RecipientUserID: req.RecipientID,
		Content:         content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		if clearErr := s.limiter.Clear(context.WithoutCancel(ctx), senderID, sendAction); clearErr != nil {
			s.logger.Warn("failed to clear message rate limit", zap.Uint("user_id", senderID), zap.Error(clearErr))
		}
		return 0, err
	}

	s.logger.Info("message sent",
		zap.Uint("message_id", message.ID),
		zap.Uint("listing_id", message.ListingID),
		zap.Uint("sender_id", senderID),
		zap.Uint("recipient_id", message.RecipientUserID))

	return message.ID, nil
}

func (s *service) GetInbox(ctx context.Context, userID uint) (*dto.MessageListResponse, error) {
	messages, err := s.messageRepo.FindByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toListResponse(messages), nil
}

func (s *service) GetSent(ctx context.Context, userID uint) (*dto.MessageListResponse, error) {
	messages, err := s.messageRepo.FindBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toListResponse(messages), nil
}

// DeleteMessage removes a message the caller received. Other messages are left alone
// without an error.
func (s *service) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	affected, err := s.messageRepo.DeleteReceived(ctx, userID, messageID)
	if err != nil {
		return err
	}

	s.logger.Info("message delete requested",
		zap.Uint("message_id", messageID),
		zap.Uint("user_id", userID),
		zap.Int64("rows_affected", affected))

	return nil
}

func toListResponse(messages []*entity.MessageDetail) *dto.MessageListResponse {
	results := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		results = append(results, dto.MessageResponse{
			ID:              m.ID,
			ListingID:       m.ListingID,
			ListingTitle:    m.ListingTitle,
			SenderUserID:    m.SenderUserID,
			SenderName:      m.SenderName,
			RecipientUserID: m.RecipientUserID,
			RecipientName:   m.RecipientName,
			Content:         m.Content,
			DateCreated:     m.DateCreated,
		})
	}
	return &dto.MessageListResponse{Count: len(results), Results: results}
}
