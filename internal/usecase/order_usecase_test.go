package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterrepo "sheworks/internal/adapter/repository"
	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/pkg/errors"
)

type orderFixture struct {
	orders        *OrderUseCase
	bridge        *OrderNotificationUseCase
	notifications repository.NotificationRepository
	notifier      *fakeNotifier
	publisher     *recordingPublisher
}

func newOrderFixture(online ...string) *orderFixture {
	participants := adapterrepo.NewMemoryParticipantRepository()
	seedParticipants(participants,
		&entity.Participant{ID: "u1", Kind: entity.ParticipantCustomer},
		&entity.Participant{ID: "V1", Kind: entity.ParticipantVendor},
		&entity.Participant{ID: "V2", Kind: entity.ParticipantVendor},
	)

	f := &orderFixture{
		notifications: adapterrepo.NewMemoryNotificationRepository(),
		notifier:      newFakeNotifier(online...),
		publisher:     &recordingPublisher{},
	}
	f.bridge = NewOrderNotificationUseCase(f.notifications, f.notifier, f.publisher)
	f.orders = NewOrderUseCase(adapterrepo.NewMemoryOrderRepository(), participants, f.bridge)
	return f
}

func twoVendorItems() []entity.OrderItem {
	return []entity.OrderItem{
		{ProductID: "p1", VendorID: "V1", Name: "Scarf", Quantity: 2, UnitPrice: 15},
		{ProductID: "p2", VendorID: "V2", Name: "Bowl", Quantity: 1, UnitPrice: 40},
		{ProductID: "p3", VendorID: "V1", Name: "Shawl", Quantity: 1, UnitPrice: 30},
	}
}

func TestOrderFanOutNotifiesEveryVendorOnce(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture("V2")

	order, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{BuyerID: "u1", BuyerKind: entity.ParticipantCustomer, Items: twoVendorItems()})
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Total)
	assert.Equal(t, []string{"V1", "V2"}, order.VendorIDs)
	assert.Equal(t, entity.OrderStatusPlaced, order.Status)

	for _, vendor := range []string{"V1", "V2"} {
		list, total, err := f.notifications.ListByOwner(ctx, vendor, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, "vendor %s", vendor)
		assert.Equal(t, entity.NotificationKindOrderPlaced, list[0].Kind)
		assert.Equal(t, order.ID, list[0].Payload["orderId"])
	}

	live := f.notifier.events()
	require.Len(t, live, 1, "only the connected vendor gets a live event")
	assert.Equal(t, "V2", live[0].ParticipantID)
	assert.Equal(t, EventOrderPlaced, live[0].Event)

	event := live[0].Data.(OrderPlacedEvent)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, "V2", event.VendorID)
	require.Len(t, event.OrderSummary.Items, 1)
	assert.Equal(t, "Bowl", event.OrderSummary.Items[0].Name)
	assert.Equal(t, 40.0, event.OrderSummary.VendorSubtotal)
	assert.Equal(t, 100.0, event.OrderSummary.Total)
	assert.Equal(t, "u1", event.OrderSummary.BuyerID)

	assert.Equal(t, []string{"orders.placed"}, f.publisher.keys)
}

func TestNotifyOrderPlacedResult(t *testing.T) {
	f := newOrderFixture("V1", "V2")
	order := &entity.Order{ID: "o1", BuyerID: "u1", Items: twoVendorItems(), Total: 100}

	result, err := f.bridge.NotifyOrderPlaced(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, []string{"V1", "V2"}, result.Vendors)
	assert.ElementsMatch(t, []string{"V1", "V2"}, result.LiveDelivered)
	assert.Equal(t, 2, result.Notifications)
}

func TestNotifyOrderPlacedStoresNotificationWhenLiveEmitFails(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture("V1")
	f.notifier.err = errors.Internal("socket closed", nil)
	order := &entity.Order{ID: "o2", BuyerID: "u1", Items: twoVendorItems()[:1]}

	result, err := f.bridge.NotifyOrderPlaced(ctx, order)
	require.NoError(t, err)
	assert.Empty(t, result.LiveDelivered)
	assert.Equal(t, 1, result.Notifications)
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	_, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{BuyerID: "V1", BuyerKind: entity.ParticipantVendor, Items: twoVendorItems()})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.orders.PlaceOrder(ctx, PlaceOrderInput{BuyerID: "u1", BuyerKind: entity.ParticipantCustomer})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.orders.PlaceOrder(ctx, PlaceOrderInput{BuyerID: "u1", BuyerKind: entity.ParticipantCustomer, Items: []entity.OrderItem{
		{ProductID: "p1", VendorID: "V1", Quantity: 0, UnitPrice: 1},
	}})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.orders.PlaceOrder(ctx, PlaceOrderInput{BuyerID: "u1", BuyerKind: entity.ParticipantCustomer, Items: []entity.OrderItem{
		{ProductID: "p1", VendorID: "V9", Quantity: 1, UnitPrice: 1},
	}})
	assert.True(t, errors.IsNotFound(err))
}

func TestGetOrderVisibility(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{BuyerID: "u1", BuyerKind: entity.ParticipantCustomer, Items: twoVendorItems()})
	require.NoError(t, err)

	for _, viewer := range []string{"u1", "V1", "V2"} {
		_, err := f.orders.GetOrder(ctx, viewer, order.ID)
		assert.NoError(t, err, viewer)
	}

	_, err = f.orders.GetOrder(ctx, "stranger", order.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	list, total, err := f.orders.ListOrders(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, order.ID, list[0].ID)
}

func TestNotificationMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := adapterrepo.NewMemoryNotificationRepository()
	uc := NewNotificationUseCase(repo)

	n := &entity.Notification{OwnerID: "V1", OwnerKind: entity.ParticipantVendor, Kind: entity.NotificationKindOrderPlaced, Text: "New order"}
	require.NoError(t, repo.Create(ctx, n))

	_, err := uc.MarkRead(ctx, "V2", n.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	updated, err := uc.MarkRead(ctx, "V1", n.ID)
	require.NoError(t, err)
	assert.True(t, updated.Read)

	list, _, err := uc.ListNotifications(ctx, "V1", 10, 0)
	require.NoError(t, err)
	assert.True(t, list[0].Read)
}

func TestEnsureParticipant(t *testing.T) {
	ctx := context.Background()
	uc := NewParticipantUseCase(adapterrepo.NewMemoryParticipantRepository())

	created, err := uc.EnsureParticipant(ctx, EnsureParticipantInput{ID: "v7", Kind: entity.ParticipantVendor, Name: "Kiln"})
	require.NoError(t, err)
	assert.Equal(t, "v7", created.ID)

	again, err := uc.EnsureParticipant(ctx, EnsureParticipantInput{ID: "v7", Kind: entity.ParticipantVendor, Name: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "Kiln", again.Name)

	_, err = uc.EnsureParticipant(ctx, EnsureParticipantInput{ID: "x", Kind: "admin"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
