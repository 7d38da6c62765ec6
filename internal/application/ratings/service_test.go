package ratings

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

func setupRatingsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Trade{}, &domain.Rating{}))
	return &Service{DB: db}, db
}

func completedTrade(t *testing.T, db *gorm.DB) (alice, bob uuid.UUID, trade *domain.Trade) {
	alice, bob = uuid.New(), uuid.New()
	trade = &domain.Trade{
		OfferUserID:  alice,
		TargetUserID: bob,
		OfferItemID:  uuid.New(),
		TargetItemID: uuid.New(),
		Status:       domain.TradeStatusCompleted,
	}
	require.NoError(t, db.Create(trade).Error)
	return alice, bob, trade
}

func TestRateTrade_RecordsCounterpart(t *testing.T) {
	svc, db := setupRatingsTest(t)
	alice, bob, trade := completedTrade(t, db)

	r, err := svc.RateTrade(context.Background(), alice, trade.TradeID, 4, "smooth trade")
	require.NoError(t, err)
	assert.Equal(t, bob, r.RatedID)
	assert.Equal(t, 4, r.Score)

	// Both sides may rate the same trade once each.
	r2, err := svc.RateTrade(context.Background(), bob, trade.TradeID, 5, "")
	require.NoError(t, err)
	assert.Equal(t, alice, r2.RatedID)
}

func TestRateTrade_DuplicateRejected(t *testing.T) {
	svc, db := setupRatingsTest(t)
	alice, _, trade := completedTrade(t, db)

	_, err := svc.RateTrade(context.Background(), alice, trade.TradeID, 4, "")
	require.NoError(t, err)
	_, err = svc.RateTrade(context.Background(), alice, trade.TradeID, 2, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestRateTrade_Guards(t *testing.T) {
	svc, db := setupRatingsTest(t)
	alice, _, trade := completedTrade(t, db)

	_, err := svc.RateTrade(context.Background(), alice, trade.TradeID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = svc.RateTrade(context.Background(), alice, trade.TradeID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = svc.RateTrade(context.Background(), alice, uuid.New(), 3, "")
	assert.ErrorIs(t, err, ErrTradeNotFound)

	_, err = svc.RateTrade(context.Background(), uuid.New(), trade.TradeID, 3, "")
	assert.ErrorIs(t, err, ErrNotParty)

	pending := &domain.Trade{
		OfferUserID:  alice,
		TargetUserID: uuid.New(),
		OfferItemID:  uuid.New(),
		TargetItemID: uuid.New(),
		Status:       domain.TradeStatusPending,
	}
	require.NoError(t, db.Create(pending).Error)
	_, err = svc.RateTrade(context.Background(), alice, pending.TradeID, 3, "")
	assert.ErrorIs(t, err, ErrTradeNotCompleted)
}

func TestUserRatings(t *testing.T) {
	svc, db := setupRatingsTest(t)
	alice, bob, trade := completedTrade(t, db)
	_, err := svc.RateTrade(context.Background(), alice, trade.TradeID, 4, "quick")
	require.NoError(t, err)

	rs, err := svc.UserRatings(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "quick", rs[0].Comment)

	rs, err = svc.UserRatings(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, rs, 0)
}
