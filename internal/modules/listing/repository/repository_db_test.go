package repository

import (
	"context"
	"testing"
	"time"

	"gator.dev/studygator/internal/entity"
	"gator.dev/studygator/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, name, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: name, Email: email, Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func subjectID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var s entity.Subject
	require.NoError(t, db.Where("name = ?", name).First(&s).Error)
	return s.ID
}

type listingFields struct {
	owner       uint
	subject     uint
	title       string
	description string
	approved    bool
	created     time.Time
}

func createListing(t *testing.T, repo ListingRepository, f listingFields) *entity.Listing {
	t.Helper()
	l := &entity.Listing{
		AssociatedUserID: f.owner,
		SubjectID:        f.subject,
		Title:            f.title,
		SalesPitch:       "Friendly and patient",
		Description:      f.description,
		Pricing:          20,
		Image:            []byte{0x89, 0x50, 0x4e, 0x47},
		Approved:         f.approved,
		DateCreated:      f.created,
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func titles(listings []*entity.ListingDetail) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestSearch_PendingListingIsHidden(t *testing.T) {
	db := requireDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	tutor := createUser(t, db, "Ada Lovelace", "ada@ufl.edu")
	math := subjectID(t, db, "Mathematics")
	approved := createListing(t, repo, listingFields{owner: tutor.ID, subject: math, title: "Calculus I", description: "limits", approved: true})
	pending := createListing(t, repo, listingFields{owner: tutor.ID, subject: math, title: "Calculus II", description: "series"})

	got, err := repo.Search(ctx, SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculus I"}, titles(got))

	got, err = repo.Search(ctx, SearchFilter{Term: "calculusii"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = repo.FindApprovedByID(ctx, pending.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	detail, err := repo.FindApprovedByID(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", detail.TutorName)
	assert.Equal(t, "Mathematics", detail.SubjectName)

	mine, err := repo.FindByOwner(ctx, tutor.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Calculus I", "Calculus II"}, titles(mine))
}

func TestSearch_WildcardsMatchLiterally(t *testing.T) {
	db := requireDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	tutor := createUser(t, db, "Grace Hopper", "grace@ufl.edu")
	cs := subjectID(t, db, "Computer Science")
	createListing(t, repo, listingFields{owner: tutor.ID, subject: cs, title: "Pass rate 100%", description: "naming in snake_case", approved: true})
	createListing(t, repo, listingFields{owner: tutor.ID, subject: cs, title: "Pass rate 1000", description: "naming in snakeXcase", approved: true})

	got, err := repo.Search(ctx, SearchFilter{Term: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pass rate 100%"}, titles(got))

	got, err = repo.Search(ctx, SearchFilter{Term: "snake_case"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pass rate 100%"}, titles(got))

	got, err = repo.Search(ctx, SearchFilter{Term: "snake"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearch_TermSpansSubjectAndTitle(t *testing.T) {
	db := requireDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	tutor := createUser(t, db, "Emmy Noether", "emmy@ufl.edu")
	createListing(t, repo, listingFields{owner: tutor.ID, subject: subjectID(t, db, "Mathematics"), title: "Calculus I", description: "limits", approved: true})
	createListing(t, repo, listingFields{owner: tutor.ID, subject: subjectID(t, db, "Physics"), title: "Calculus for mechanics", description: "motion", approved: true})

	got, err := repo.Search(ctx, SearchFilter{Term: "mathematicscalculus"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculus I"}, titles(got))

	got, err = repo.Search(ctx, SearchFilter{Term: "emmynoether"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearch_SubjectFilterAndOrder(t *testing.T) {
	db := requireDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	tutor := createUser(t, db, "Alan Turing", "alan@ufl.edu")
	math := subjectID(t, db, "Mathematics")
	physics := subjectID(t, db, "Physics")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	createListing(t, repo, listingFields{owner: tutor.ID, subject: math, title: "Oldest", description: "a", approved: true, created: base})
	createListing(t, repo, listingFields{owner: tutor.ID, subject: math, title: "Newest", description: "b", approved: true, created: base.Add(2 * time.Hour)})
	createListing(t, repo, listingFields{owner: tutor.ID, subject: physics, title: "Middle", description: "c", approved: true, created: base.Add(time.Hour)})

	got, err := repo.Search(ctx, SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Newest", "Middle", "Oldest"}, titles(got))

	got, err = repo.Search(ctx, SearchFilter{SubjectID: &math})
	require.NoError(t, err)
	assert.Equal(t, []string{"Newest", "Oldest"}, titles(got))
}

func TestCreate_AbsentAttachmentsAreNull(t *testing.T) {
	db := requireDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	tutor := createUser(t, db, "Marie Curie", "marie@ufl.edu")
	l := createListing(t, repo, listingFields{owner: tutor.ID, subject: subjectID(t, db, "Chemistry"), title: "Radioactivity", description: "decay"})

	var nulls int64
	require.NoError(t, db.Table("listings").
		Where("id = ? AND attached_file IS NULL AND attached_video IS NULL", l.ID).
		Count(&nulls).Error)
	assert.Equal(t, int64(1), nulls)

	found, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, tutor.ID, found.AssociatedUserID)
	assert.False(t, found.Approved)
	assert.Nil(t, found.Image)

	_, err = repo.FindByID(ctx, l.ID+100)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteOwned(t *testing.T) {
	db := requireDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "Owner", "owner@ufl.edu")
	other := createUser(t, db, "Other", "other@ufl.edu")
	l := createListing(t, repo, listingFields{owner: owner.ID, subject: subjectID(t, db, "History"), title: "Rome", description: "empire", approved: true})

	n, err := repo.DeleteOwned(ctx, other.ID, l.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.FindByID(ctx, l.ID)
	require.NoError(t, err)

	n, err = repo.DeleteOwned(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteOwned(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
