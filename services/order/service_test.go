package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mypublisher"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
	"github.com/sokohub/marketbackend/services/catalog"
	"github.com/sokohub/marketbackend/services/order/orderevents"
	"github.com/sokohub/marketbackend/services/paymentapi"
)

func TestPlaceOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, sut, merchStore, publisher, nower, uuider := setup(t, ctrl)

	// given
	seedMerchandise(ctx, merchStore)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("order-1")
	publisher.EXPECT().Publish(gomock.Any(), orderevents.TopicName, orderevents.OrderPlaced{
		OrderUID:    "order-1",
		Email:       "buyer@example.com",
		AmountCents: 70000,
		LineCount:   2,
	}).Return(nil)

	// when
	created, err := sut.PlaceOrder(ctx, "buyer@example.com", []paymentapi.OrderLine{
		{MerchandiseUID: "merch-1", Quantity: 2},
		{MerchandiseUID: "merch-2", Quantity: 1},
	})

	// then
	assert.NoError(t, err)
	assert.Equal(t, "order-1", created.UID)
	// total is recomputed from catalog prices, whatever the client claimed
	assert.Equal(t, int64(2*25000+20000), created.AmountCents)
	assert.Equal(t, StatusPending, created.Status)

	merch, _, _ := merchStore.Get(ctx, "merch-1")
	assert.Equal(t, 3, merch.Stock)
	merch, _, _ = merchStore.Get(ctx, "merch-2")
	assert.Equal(t, 0, merch.Stock)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, sut, merchStore, _, nower, uuider := setup(t, ctrl)

	// given
	seedMerchandise(ctx, merchStore)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("order-1")

	// when
	_, err := sut.PlaceOrder(ctx, "buyer@example.com", []paymentapi.OrderLine{
		{MerchandiseUID: "merch-2", Quantity: 5},
	})

	// then
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "out of stock")

	merch, _, _ := merchStore.Get(ctx, "merch-2")
	assert.Equal(t, 1, merch.Stock)
}

func TestPlaceOrderUnknownMerchandise(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, sut, merchStore, _, nower, uuider := setup(t, ctrl)

	// given
	seedMerchandise(ctx, merchStore)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("order-1")

	// when
	_, err := sut.PlaceOrder(ctx, "buyer@example.com", []paymentapi.OrderLine{
		{MerchandiseUID: "nope", Quantity: 1},
	})

	// then
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, sut, merchStore, _, nower, uuider := setup(t, ctrl)

	// given
	seedMerchandise(ctx, merchStore)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("order-1")

	// when
	_, err := sut.PlaceOrder(ctx, "buyer@example.com", []paymentapi.OrderLine{
		{MerchandiseUID: "merch-1", Quantity: 0},
	})

	// then
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "positive")
}

func TestPlaceOrderWithoutEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, sut, _, _, nower, _ := setup(t, ctrl)

	// given
	nower.EXPECT().Now().Return(mytime.ExampleTime)

	// when
	_, err := sut.PlaceOrder(ctx, "", []paymentapi.OrderLine{
		{MerchandiseUID: "merch-1", Quantity: 1},
	})

	// then
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestCompleteOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, sut, merchStore, publisher, nower, uuider := setup(t, ctrl)

	// given
	seedMerchandise(ctx, merchStore)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("order-1")
	publisher.EXPECT().Publish(gomock.Any(), orderevents.TopicName, gomock.Any()).Return(nil)

	placed, err := sut.PlaceOrder(ctx, "buyer@example.com", []paymentapi.OrderLine{
		{MerchandiseUID: "merch-1", Quantity: 1},
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, placed.Status)

	// when
	err = sut.CompleteOrder(ctx, placed.UID)

	// then
	assert.NoError(t, err)

	orders, err := sut.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, StatusCompleted, orders[0].Status)

	// completing again is a no-op
	err = sut.CompleteOrder(ctx, placed.UID)
	assert.NoError(t, err)
}

func TestCompleteUnknownOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, sut, _, _, _, _ := setup(t, ctrl)

	// when
	err := sut.CompleteOrder(ctx, "nope")

	// then
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func seedMerchandise(ctx context.Context, merchStore mystore.Store[catalog.Merchandise]) {
	_ = merchStore.Put(ctx, "merch-1", catalog.Merchandise{
		UID:        "merch-1",
		Name:       "Campus hoodie",
		PriceCents: 25000,
		Stock:      5,
	})
	_ = merchStore.Put(ctx, "merch-2", catalog.Merchandise{
		UID:        "merch-2",
		Name:       "Sticker pack",
		PriceCents: 20000,
		Stock:      1,
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *Service, mystore.Store[catalog.Merchandise], *mypublisher.MockPublisher, *mytime.MockNower, *myuuid.MockUUIDer) {
	c := context.TODO()
	orderStore, _, _ := mystore.NewInMemoryStore[Order](c)
	merchStore, _, _ := mystore.NewInMemoryStore[catalog.Merchandise](c)
	publisher := mypublisher.NewMockPublisher(ctrl)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)

	sut := NewService(orderStore, merchStore, publisher, nower, uuider, mylog.New("order"))

	return c, sut, merchStore, publisher, nower, uuider
}
