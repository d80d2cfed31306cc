package message

import (
	"context"
	"errors"
	"testing"
	"time"

	"gator.dev/studygator/internal/entity"
	listingRepo "gator.dev/studygator/internal/modules/listing/repository"
	"gator.dev/studygator/internal/modules/message/dto"
	"gator.dev/studygator/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessageRepo struct {
	nextID   uint
	messages []*entity.MessageDetail
	err      error
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	m.ID = f.nextID
	m.DateCreated = time.Now().Add(time.Duration(f.nextID) * time.Second)
	f.messages = append(f.messages, &entity.MessageDetail{Message: *m})
	return nil
}

func (f *fakeMessageRepo) find(match func(*entity.MessageDetail) bool) []*entity.MessageDetail {
	var out []*entity.MessageDetail
	for i := len(f.messages) - 1; i >= 0; i-- {
		if match(f.messages[i]) {
			out = append(out, f.messages[i])
		}
	}
	return out
}

func (f *fakeMessageRepo) FindByRecipient(ctx context.Context, userID uint) ([]*entity.MessageDetail, error) {
	return f.find(func(m *entity.MessageDetail) bool { return m.RecipientUserID == userID }), nil
}

func (f *fakeMessageRepo) FindBySender(ctx context.Context, userID uint) ([]*entity.MessageDetail, error) {
	return f.find(func(m *entity.MessageDetail) bool { return m.SenderUserID == userID }), nil
}

func (f *fakeMessageRepo) DeleteReceived(ctx context.Context, userID, messageID uint) (int64, error) {
	for i, m := range f.messages {
		if m.ID == messageID && m.RecipientUserID == userID {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// fakeListings only backs FindByID; the other methods are unused here.
type fakeListings struct {
	listingRepo.ListingRepository
}

func (fakeListings) FindByID(ctx context.Context, id uint) (*entity.Listing, error) {
	if id == 5 {
		return &entity.Listing{ID: 5, AssociatedUserID: 2, Title: "Calculus help"}, nil
	}
	return nil, apperror.ErrNotFound
}

type fakeUsers struct{}

func (fakeUsers) Create(ctx context.Context, user *entity.User) error { return nil }

func (fakeUsers) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if id == 1 || id == 2 || id == 3 {
		return &entity.User{ID: id}, nil
	}
	return nil, apperror.ErrNotFound
}

func (fakeUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, apperror.ErrNotFound
}

func newTestService(r *fakeMessageRepo) Service {
	return NewService(r, fakeListings{}, fakeUsers{}, nil, time.Second, zap.NewNop())
}

func TestSendAndFetch(t *testing.T) {
	ctx := context.Background()
	r := &fakeMessageRepo{}
	svc := newTestService(r)

	id, err := svc.SendMessage(ctx, 1, dto.SendMessageRequest{ListingID: 5, RecipientID: 2, Content: "Are you free <b>Monday</b>?"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	_, err = svc.SendMessage(ctx, 3, dto.SendMessageRequest{ListingID: 5, RecipientID: 2, Content: "Hi"})
	require.NoError(t, err)

	inbox, err := svc.GetInbox(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, inbox.Count)
	assert.Equal(t, uint(3), inbox.Results[0].SenderUserID)
	assert.Equal(t, "Are you free Monday?", inbox.Results[1].Content)

	sent, err := svc.GetSent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, sent.Count)
	assert.Equal(t, uint(2), sent.Results[0].RecipientUserID)
}

func TestGetInboxEmpty(t *testing.T) {
	svc := newTestService(&fakeMessageRepo{})

	inbox, err := svc.GetInbox(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 0, inbox.Count)
	assert.NotNil(t, inbox.Results)
}

func TestSendMessageValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.SendMessageRequest
		want error
	}{
		{"markup only", dto.SendMessageRequest{ListingID: 5, RecipientID: 2, Content: "<script></script>"}, apperror.ErrBadRequest},
		{"blank", dto.SendMessageRequest{ListingID: 5, RecipientID: 2, Content: "   "}, apperror.ErrBadRequest},
		{"unknown listing", dto.SendMessageRequest{ListingID: 6, RecipientID: 2, Content: "hi"}, apperror.ErrNotFound},
		{"unknown recipient", dto.SendMessageRequest{ListingID: 5, RecipientID: 99, Content: "hi"}, apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeMessageRepo{}
			_, err := newTestService(r).SendMessage(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, r.messages)
		})
	}
}

func TestSendMessageRepoError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := newTestService(&fakeMessageRepo{err: boom}).SendMessage(context.Background(), 1,
		dto.SendMessageRequest{ListingID: 5, RecipientID: 2, Content: "hi"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 500, apperror.MapErrorToStatus(err))
}

func TestDeleteMessageScopedToRecipient(t *testing.T) {
	ctx := context.Background()
	r := &fakeMessageRepo{}
	svc := newTestService(r)

	id, err := svc.SendMessage(ctx, 1, dto.SendMessageRequest{ListingID: 5, RecipientID: 2, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMessage(ctx, 1, id))
	require.NoError(t, svc.DeleteMessage(ctx, 3, id))
	assert.Len(t, r.messages, 1)

	require.NoError(t, svc.DeleteMessage(ctx, 2, id))
	assert.Empty(t, r.messages)
}
