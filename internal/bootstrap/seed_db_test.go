package bootstrap

import (
	"context"
	"testing"

	"gator.dev/studygator/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDemoData(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	require.NoError(t, SeedDemoData(ctx, db, "ufl.edu", logger))
	require.NoError(t, SeedDemoData(ctx, db, "ufl.edu", logger))

	var tutor entity.User
	require.NoError(t, db.Where("email = ?", "demo.tutor@ufl.edu").First(&tutor).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(tutor.Password), []byte(demoPassword)))

	var approved int64
	require.NoError(t, db.Model(&entity.Listing{}).
		Where("associated_user_id = ? AND approved", tutor.ID).
		Count(&approved).Error)
	assert.Equal(t, int64(len(demoListings)), approved)

	seeded := logs.FilterMessage("demo data seeded").All()
	require.Len(t, seeded, 1)
	fields := seeded[0].ContextMap()
	assert.Equal(t, "demo.tutor@ufl.edu", fields["email"])
	assert.NotContains(t, fields, "password")
	for _, entry := range logs.All() {
		for _, v := range entry.ContextMap() {
			assert.NotEqual(t, demoPassword, v)
		}
	}
	assert.Equal(t, 1, logs.FilterMessage("demo data already exists, skipping seed").Len())
}
