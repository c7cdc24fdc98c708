package seeders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func TestSeedersAreIdempotent(t *testing.T) {
	db := testkit.DB(t)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	roles, perms := count(&models.Role{}), count(&models.Permission{})
	delivery, users := count(&models.DeliveryMethod{}), count(&models.User{})
	require.NotZero(t, roles)

	done, err := seeders.RunAll(db)
	require.NoError(t, err)
	assert.Len(t, done, len(seeders.All))

	assert.Equal(t, roles, count(&models.Role{}))
	assert.Equal(t, perms, count(&models.Permission{}))
	assert.Equal(t, delivery, count(&models.DeliveryMethod{}))
	assert.Equal(t, users, count(&models.User{}))
}

func TestRunSelectedSeeders(t *testing.T) {
	db := testkit.DB(t)

	done, err := seeders.Run(db, "admin_user", "roles")
	require.NoError(t, err)
	assert.Equal(t, []string{"roles", "admin_user"}, done, "dependency order wins over argument order")

	_, err = seeders.Run(db, "nope")
	assert.ErrorContains(t, err, "nope")
}
