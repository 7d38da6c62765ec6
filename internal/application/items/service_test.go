package items

import (
	"context"
	"testing"

	"barterzone-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupItemsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Item{}))
	return &Service{DB: db}, db
}

func TestCreateItem_DefaultsAvailable(t *testing.T) {
	svc, _ := setupItemsTest(t)
	owner := uuid.New()

	item, err := svc.CreateItem(context.Background(), owner, CreateItemInput{
		Name:      "  Film camera ",
		Brand:     "Pentax",
		Condition: "used",
	})
	require.NoError(t, err)
	assert.True(t, item.Available)
	assert.Equal(t, "Film camera", item.Name)
	assert.Equal(t, owner, item.UserID)
}

func TestCreateItem_RequiresName(t *testing.T) {
	svc, _ := setupItemsTest(t)

	_, err := svc.CreateItem(context.Background(), uuid.New(), CreateItemInput{Name: "   "})
	assert.Error(t, err)

	_, err = svc.CreateItem(context.Background(), uuid.New(), CreateItemInput{
		Name: "camera", DateBought: "15-09-2026",
	})
	assert.Error(t, err)
}

func TestEditItem_OwnerOnly(t *testing.T) {
	svc, _ := setupItemsTest(t)
	owner := uuid.New()
	item, err := svc.CreateItem(context.Background(), owner, CreateItemInput{Name: "camera"})
	require.NoError(t, err)

	_, err = svc.EditItem(context.Background(), uuid.New(), item.ItemID, CreateItemInput{Name: "stolen"})
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := svc.EditItem(context.Background(), owner, item.ItemID, CreateItemInput{Name: "camera", Brand: "Pentax"})
	require.NoError(t, err)
	assert.Equal(t, "Pentax", got.Brand)
}

func TestEditItem_RejectedWhileBound(t *testing.T) {
	svc, db := setupItemsTest(t)
	owner := uuid.New()
	item, err := svc.CreateItem(context.Background(), owner, CreateItemInput{Name: "camera"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Item{}).Where("item_id = ?", item.ItemID).Update("available", false).Error)

	_, err = svc.EditItem(context.Background(), owner, item.ItemID, CreateItemInput{Name: "camera"})
	assert.ErrorIs(t, err, ErrItemBound)

	err = svc.DeleteItem(context.Background(), owner, item.ItemID)
	assert.ErrorIs(t, err, ErrItemBound)
}

func TestDeleteItem(t *testing.T) {
	svc, _ := setupItemsTest(t)
	owner := uuid.New()
	item, err := svc.CreateItem(context.Background(), owner, CreateItemInput{Name: "camera"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), owner, item.ItemID))
	_, err = svc.GetItem(context.Background(), item.ItemID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetAvailableItems_ExcludesOwnAndBound(t *testing.T) {
	svc, db := setupItemsTest(t)
	me := uuid.New()
	other := uuid.New()

	mine, err := svc.CreateItem(context.Background(), me, CreateItemInput{Name: "mine"})
	require.NoError(t, err)
	theirs, err := svc.CreateItem(context.Background(), other, CreateItemInput{Name: "theirs"})
	require.NoError(t, err)
	bound, err := svc.CreateItem(context.Background(), other, CreateItemInput{Name: "bound"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Item{}).Where("item_id = ?", bound.ItemID).Update("available", false).Error)

	items, err := svc.GetAvailableItems(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, theirs.ItemID, items[0].ItemID)
	_ = mine
}

func TestSearchItems_MatchesNameBrandDescription(t *testing.T) {
	svc, _ := setupItemsTest(t)
	me := uuid.New()
	other := uuid.New()

	_, err := svc.CreateItem(context.Background(), other, CreateItemInput{Name: "Road bike"})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), other, CreateItemInput{Name: "Helmet", Brand: "BikePro"})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), other, CreateItemInput{Name: "Gloves", Description: "for winter biking"})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), other, CreateItemInput{Name: "Kettle"})
	require.NoError(t, err)

	items, err := svc.SearchItems(context.Background(), me, "bik")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
