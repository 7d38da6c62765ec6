package trades

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

type fakeNotifier struct {
	proposed int
	accepted int
}

func (f *fakeNotifier) TradeProposed(ctx context.Context, trade *domain.Trade) error {
	f.proposed++
	return nil
}

func (f *fakeNotifier) TradeAccepted(ctx context.Context, trade *domain.Trade) error {
	f.accepted++
	return nil
}

func setupTradeTest(t *testing.T) (*Service, *gorm.DB, *fakeNotifier) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Item{}, &domain.Trade{},
		&domain.Arrangement{}, &domain.TradeEvent{}, &domain.NegotiationMessage{},
	))
	n := &fakeNotifier{}
	return &Service{DB: db, Notifier: n}, db, n
}

func makeUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	u := &domain.User{Username: username, Email: username + "@test.dev", PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func makeItem(t *testing.T, db *gorm.DB, owner uuid.UUID, name string) *domain.Item {
	i := &domain.Item{UserID: owner, Name: name, Available: true}
	require.NoError(t, db.Create(i).Error)
	return i
}

// makeTrade sets up two users with one item each and a pending trade between them.
func makeTrade(t *testing.T, svc *Service, db *gorm.DB) (alice, bob *domain.User, trade *domain.Trade) {
	alice = makeUser(t, db, "alice")
	bob = makeUser(t, db, "bob")
	offerItem := makeItem(t, db, alice.UserID, "camera")
	targetItem := makeItem(t, db, bob.UserID, "guitar")
	trade, err := svc.Propose(context.Background(), alice.UserID, offerItem.ItemID, targetItem.ItemID)
	require.NoError(t, err)
	return alice, bob, trade
}

func itemAvailable(t *testing.T, db *gorm.DB, itemID uuid.UUID) bool {
	var item domain.Item
	require.NoError(t, db.Where("item_id = ?", itemID).First(&item).Error)
	return item.Available
}

func TestPropose_BindsBothItems(t *testing.T) {
	svc, db, n := setupTradeTest(t)
	_, _, trade := makeTrade(t, svc, db)

	assert.Equal(t, domain.TradeStatusPending, trade.Status)
	assert.False(t, itemAvailable(t, db, trade.OfferItemID))
	assert.False(t, itemAvailable(t, db, trade.TargetItemID))
	assert.Equal(t, 1, n.proposed)

	var events []domain.TradeEvent
	require.NoError(t, db.Where("trade_id = ?", trade.TradeID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, domain.TradeEventProposed, events[0].EventType)
}

func TestPropose_RejectsForeignOfferItem(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice := makeUser(t, db, "alice")
	bob := makeUser(t, db, "bob")
	bobsItem := makeItem(t, db, bob.UserID, "guitar")
	other := makeItem(t, db, bob.UserID, "amp")

	_, err := svc.Propose(context.Background(), alice.UserID, bobsItem.ItemID, other.ItemID)
	assert.ErrorIs(t, err, ErrItemNotOwned)
}

func TestPropose_RejectsSelfTrade(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice := makeUser(t, db, "alice")
	a := makeItem(t, db, alice.UserID, "camera")
	b := makeItem(t, db, alice.UserID, "lens")

	_, err := svc.Propose(context.Background(), alice.UserID, a.ItemID, b.ItemID)
	assert.ErrorIs(t, err, ErrTradeWithSelf)
}

func TestPropose_RejectsBoundItem(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	_, bob, trade := makeTrade(t, svc, db)

	// A third trader cannot offer for an item already bound to a pending trade.
	carol := makeUser(t, db, "carol")
	carolsItem := makeItem(t, db, carol.UserID, "bike")
	_, err := svc.Propose(context.Background(), carol.UserID, carolsItem.ItemID, trade.TargetItemID)
	assert.ErrorIs(t, err, ErrItemUnavailable)
	assert.True(t, itemAvailable(t, db, carolsItem.ItemID))
	_ = bob
}

func TestRespond_AcceptByTarget(t *testing.T) {
	svc, db, n := setupTradeTest(t)
	_, bob, trade := makeTrade(t, svc, db)

	got, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusAccepted, got.Status)
	// Accepted trades keep both items bound.
	assert.False(t, itemAvailable(t, db, trade.OfferItemID))
	assert.False(t, itemAvailable(t, db, trade.TargetItemID))
	assert.Equal(t, 1, n.accepted)
}

func TestRespond_DeclineReleasesItems(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	_, bob, trade := makeTrade(t, svc, db)

	got, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionDecline)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusDeclined, got.Status)
	assert.True(t, itemAvailable(t, db, trade.OfferItemID))
	assert.True(t, itemAvailable(t, db, trade.TargetItemID))
}

func TestRespond_PermissionMatrix(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	carol := makeUser(t, db, "carol")

	_, err := svc.Respond(context.Background(), carol.UserID, trade.TradeID, ActionAccept)
	assert.ErrorIs(t, err, ErrNotParty)

	// Initiator cannot accept their own proposal.
	_, err = svc.Respond(context.Background(), alice.UserID, trade.TradeID, ActionAccept)
	assert.ErrorIs(t, err, ErrNotTarget)

	// Target cannot cancel, only decline.
	_, err = svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionCancel)
	assert.ErrorIs(t, err, ErrNotInitiator)

	_, err = svc.Respond(context.Background(), bob.UserID, trade.TradeID, "explode")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestRespond_OnlyPending(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	_, bob, trade := makeTrade(t, svc, db)

	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionDecline)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCancel_ReleasesItemsAndRecordsReason(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)

	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), alice.UserID, trade.TradeID, "")
	assert.ErrorIs(t, err, ErrCancelReasonMissing)

	got, err := svc.Cancel(context.Background(), alice.UserID, trade.TradeID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusCancelled, got.Status)
	assert.Equal(t, "changed my mind", got.CancellationReason)
	assert.True(t, itemAvailable(t, db, trade.OfferItemID))
	assert.True(t, itemAvailable(t, db, trade.TargetItemID))

	// Terminal trades cannot be cancelled again.
	_, err = svc.Cancel(context.Background(), alice.UserID, trade.TradeID, "again")
	assert.ErrorIs(t, err, ErrTradeTerminal)
}

func TestNegotiateArrangement_MeetupUpdatesSharedFields(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)

	arr, err := svc.NegotiateArrangement(context.Background(), alice.UserID, trade.TradeID, ArrangementInput{
		Method:         "meetup",
		MeetupLocation: "Central Station",
		MeetupDate:     "2026-09-15",
		MeetupTime:     "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ArrangementMethodMeetup, arr.Method)
	assert.Equal(t, "Central Station", arr.MeetupLocation)
	assert.Equal(t, domain.ArrangementStatusPending, arr.Status)
}

func TestNegotiateArrangement_DeliveryFillsCallerSide(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)

	arr, err := svc.NegotiateArrangement(context.Background(), alice.UserID, trade.TradeID, ArrangementInput{
		Method:          "delivery",
		DeliveryAddress: "1 Offer St",
		CourierOption:   "postal",
	})
	require.NoError(t, err)
	assert.Equal(t, "1 Offer St", arr.OfferDeliveryAddress)
	assert.Empty(t, arr.TargetDeliveryAddress)

	arr, err = svc.NegotiateArrangement(context.Background(), bob.UserID, trade.TradeID, ArrangementInput{
		Method:          "delivery",
		DeliveryAddress: "2 Target Ave",
		TrackingNumber:  "TRK-99",
	})
	require.NoError(t, err)
	assert.Equal(t, "1 Offer St", arr.OfferDeliveryAddress)
	assert.Equal(t, "2 Target Ave", arr.TargetDeliveryAddress)
	assert.Equal(t, "TRK-99", arr.TargetTrackingNumber)
}

func TestNegotiateArrangement_RejectsBadMethod(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, _, trade := makeTrade(t, svc, db)

	_, err := svc.NegotiateArrangement(context.Background(), alice.UserID, trade.TradeID, ArrangementInput{Method: "carrier pigeon"})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestArrangementEdit_ClearsBothConfirmations(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)
	_, err = svc.NegotiateArrangement(context.Background(), alice.UserID, trade.TradeID, ArrangementInput{
		Method: "meetup", MeetupLocation: "Park",
	})
	require.NoError(t, err)

	_, err = svc.ConfirmDetails(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	arr, err := svc.ConfirmDetails(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)
	assert.Equal(t, domain.ArrangementStatusAccepted, arr.Status)
	assert.True(t, arr.OfferConfirmedDetails)
	assert.True(t, arr.TargetConfirmedDetails)

	// Any edit after consensus invalidates both confirmations.
	arr, err = svc.NegotiateArrangement(context.Background(), bob.UserID, trade.TradeID, ArrangementInput{
		Method: "meetup", MeetupLocation: "Library",
	})
	require.NoError(t, err)
	assert.False(t, arr.OfferConfirmedDetails)
	assert.False(t, arr.TargetConfirmedDetails)
	assert.Equal(t, domain.ArrangementStatusPending, arr.Status)
}

func TestConfirmDetails_RequiresArrangement(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, _, trade := makeTrade(t, svc, db)

	_, err := svc.ConfirmDetails(context.Background(), alice.UserID, trade.TradeID)
	assert.ErrorIs(t, err, ErrArrangementMissing)
}

func TestConfirmDetails_AcceptsPendingTrade(t *testing.T) {
	svc, db, n := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)

	// Parties settle logistics before bob ever calls Respond.
	_, err := svc.NegotiateArrangement(context.Background(), alice.UserID, trade.TradeID, ArrangementInput{
		Method: "meetup", MeetupLocation: "Park",
	})
	require.NoError(t, err)

	_, err = svc.ConfirmDetails(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	got, err := svc.GetTrade(context.Background(), alice.UserID, trade.TradeID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusPending, got.Status)

	arr, err := svc.ConfirmDetails(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)
	assert.Equal(t, domain.ArrangementStatusAccepted, arr.Status)

	// Consensus on details accepts the trade itself.
	got, err = svc.GetTrade(context.Background(), alice.UserID, trade.TradeID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusAccepted, got.Status)
	assert.Equal(t, 1, n.accepted)

	var count int64
	require.NoError(t, db.Model(&domain.TradeEvent{}).
		Where("trade_id = ? AND event_type = ?", trade.TradeID, domain.TradeEventAccepted).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Receipt confirmation is no longer a dead end.
	_, err = svc.ConfirmReceipt(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	got, err = svc.ConfirmReceipt(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusCompleted, got.Status)
}

func TestConfirmReceipt_CompletesOnceBothConfirm(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)
	_, err = svc.NegotiateArrangement(context.Background(), alice.UserID, trade.TradeID, ArrangementInput{
		Method: "meetup", MeetupLocation: "Park",
	})
	require.NoError(t, err)

	got, err := svc.ConfirmReceipt(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusAccepted, got.Status)
	assert.True(t, got.OfferReceived)
	assert.False(t, got.TargetReceived)

	got, err = svc.ConfirmReceipt(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	// Completed trades retire both items for good.
	assert.False(t, itemAvailable(t, db, trade.OfferItemID))
	assert.False(t, itemAvailable(t, db, trade.TargetItemID))

	arr, err := svc.GetArrangement(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	assert.Equal(t, domain.ArrangementStatusCompleted, arr.Status)

	var count int64
	require.NoError(t, db.Model(&domain.TradeEvent{}).
		Where("trade_id = ? AND event_type = ?", trade.TradeID, domain.TradeEventCompleted).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConfirmReceipt_IdempotentAfterCompletion(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)
	_, err = svc.ConfirmReceipt(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	_, err = svc.ConfirmReceipt(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)

	// Resubmission after completion is a no-op, not an error.
	got, err := svc.ConfirmReceipt(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)
	assert.Equal(t, domain.TradeStatusCompleted, got.Status)

	var count int64
	require.NoError(t, db.Model(&domain.TradeEvent{}).
		Where("trade_id = ? AND event_type = ?", trade.TradeID, domain.TradeEventCompleted).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConfirmReceipt_RequiresAcceptedTrade(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, _, trade := makeTrade(t, svc, db)

	_, err := svc.ConfirmReceipt(context.Background(), alice.UserID, trade.TradeID)
	assert.ErrorIs(t, err, ErrNotAccepted)
}

func TestGetTrade_PartyOnly(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	_, _, trade := makeTrade(t, svc, db)
	carol := makeUser(t, db, "carol")

	_, err := svc.GetTrade(context.Background(), carol.UserID, trade.TradeID, false)
	assert.ErrorIs(t, err, ErrNotParty)

	_, err = svc.GetTrade(context.Background(), carol.UserID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrTradeNotFound)

	// Admin viewers bypass the party check.
	got, err := svc.GetTrade(context.Background(), carol.UserID, trade.TradeID, true)
	require.NoError(t, err)
	assert.Equal(t, trade.TradeID, got.TradeID)
}

func TestGetTradeRequests_PendingOnly(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)

	reqs, err := svc.GetTradeRequests(context.Background(), bob.UserID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	_, err = svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)

	reqs, err = svc.GetTradeRequests(context.Background(), bob.UserID)
	require.NoError(t, err)
	assert.Len(t, reqs, 0)

	hist, err := svc.GetTradeHistory(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestNegotiationMessages_PartiesOnly(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	carol := makeUser(t, db, "carol")

	_, err := svc.AddNegotiationMessage(context.Background(), carol.UserID, trade.TradeID, NegotiationMessageInput{Content: "hi"})
	assert.ErrorIs(t, err, ErrNotParty)

	_, err = svc.AddNegotiationMessage(context.Background(), alice.UserID, trade.TradeID, NegotiationMessageInput{Content: "deal?"})
	require.NoError(t, err)
	_, err = svc.AddNegotiationMessage(context.Background(), bob.UserID, trade.TradeID, NegotiationMessageInput{
		MessageType:       domain.NegotiationTypeSuggestion,
		SuggestedLocation: "Market Square",
		SuggestedDate:     "2026-09-20",
	})
	require.NoError(t, err)

	ms, err := svc.ListNegotiationMessages(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, domain.NegotiationTypeText, ms[0].MessageType)
	assert.Equal(t, "Market Square", ms[1].SuggestedLocation)
}

func TestEvents_TrailCoversLifecycle(t *testing.T) {
	svc, db, _ := setupTradeTest(t)
	alice, bob, trade := makeTrade(t, svc, db)
	_, err := svc.Respond(context.Background(), bob.UserID, trade.TradeID, ActionAccept)
	require.NoError(t, err)
	_, err = svc.NegotiateArrangement(context.Background(), alice.UserID, trade.TradeID, ArrangementInput{
		Method: "meetup", MeetupLocation: "Park",
	})
	require.NoError(t, err)
	_, err = svc.ConfirmReceipt(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	_, err = svc.ConfirmReceipt(context.Background(), bob.UserID, trade.TradeID)
	require.NoError(t, err)

	events, err := svc.GetTradeEvents(context.Background(), alice.UserID, trade.TradeID)
	require.NoError(t, err)
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType
	}
	assert.Contains(t, types, domain.TradeEventProposed)
	assert.Contains(t, types, domain.TradeEventAccepted)
	assert.Contains(t, types, domain.TradeEventArrangementSet)
	assert.Contains(t, types, domain.TradeEventReceiptConfirmed)
	assert.Contains(t, types, domain.TradeEventCompleted)
}
