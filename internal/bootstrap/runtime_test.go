package bootstrap

import (
	"context"
	"testing"

	"scholarsync/internal/models"
	"scholarsync/internal/seed"
	"scholarsync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIfEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	opts := seed.Options{NumUsers: 2, NumActivities: 3}

	require.NoError(t, seedIfEmpty(ctx, db, opts))
	require.NoError(t, seedIfEmpty(ctx, db, opts))

	var n int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&n).Error)
	assert.EqualValues(t, 3, n)
}
