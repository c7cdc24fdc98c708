package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func TestProductListAddSkipsExisting(t *testing.T) {
	db := testkit.DB(t)
	fx := testkit.NewCatalog(t, db)
	cat := fx.Category("Phones", nil)
	a := fx.Product(cat, "Pixel Nine", "699", 1)
	b := fx.Product(cat, "Pixel Fold", "1799", 1)

	var admin models.User
	require.NoError(t, db.Where("email = ?", testkit.AdminEmail).First(&admin).Error)

	ctx := context.Background()
	favorites := repositories.NewFavoriteRepository(db)
	require.NoError(t, favorites.Add(ctx, admin.ID, a.ID))
	require.NoError(t, favorites.Add(ctx, admin.ID, a.ID, b.ID))
	require.NoError(t, favorites.Add(ctx, admin.ID))

	ids, err := favorites.ProductIDs(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids)

	compare := repositories.NewComparisonRepository(db)
	require.NoError(t, compare.Add(ctx, admin.ID, b.ID, b.ID))
	ids, err = compare.ProductIDs(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)

	require.NoError(t, favorites.Remove(ctx, admin.ID, a.ID))
	ids, err = favorites.ProductIDs(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)
}
