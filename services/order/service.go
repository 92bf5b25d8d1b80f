package order

import (
	"context"
	"fmt"

	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mypublisher"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
	"github.com/sokohub/marketbackend/services/catalog"
	"github.com/sokohub/marketbackend/services/order/orderevents"
	"github.com/sokohub/marketbackend/services/paymentapi"
)

type Service struct {
	orderStore mystore.Store[Order]
	merchStore mystore.Store[catalog.Merchandise]
	publisher  mypublisher.Publisher
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(orderStore mystore.Store[Order], merchStore mystore.Store[catalog.Merchandise], publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *Service {
	return &Service{
		orderStore: orderStore,
		merchStore: merchStore,
		publisher:  publisher,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

// PlaceOrder validates the requested lines against the catalog, recomputes
// the total server-side, reserves the stock and stores the order, all in one
// transaction.
func (s *Service) PlaceOrder(c context.Context, email string, lines []paymentapi.OrderLine) (Order, error) {
	now := s.nower.Now()

	if email == "" {
		return Order{}, myerrors.NewInvalidInputErrorf("email is required")
	}
	if len(lines) == 0 {
		return Order{}, myerrors.NewInvalidInputErrorf("order items are required")
	}

	order := Order{
		UID:       s.uuider.Create(),
		Email:     email,
		Status:    StatusPending,
		CreatedAt: now,
	}

	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		for _, line := range lines {
			if line.Quantity <= 0 {
				return myerrors.NewInvalidInputErrorf("quantity must be a positive integer")
			}

			merch, found, err := s.merchStore.Get(c, line.MerchandiseUID)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error fetching merchandise %s: %s", line.MerchandiseUID, err))
			}
			if !found {
				return myerrors.NewNotFoundError(fmt.Errorf("merchandise %s not found", line.MerchandiseUID))
			}
			if merch.Stock < line.Quantity {
				return myerrors.NewInvalidInputErrorf("merchandise %s is out of stock or insufficient quantity available", merch.Name)
			}

			merch.Stock -= line.Quantity
			merch.LastModified = &now
			err = s.merchStore.Put(c, merch.UID, merch)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error updating stock of %s: %s", merch.UID, err))
			}

			order.Lines = append(order.Lines, Line{
				MerchandiseUID: merch.UID,
				Quantity:       line.Quantity,
				PriceCents:     merch.PriceCents,
			})
			order.AmountCents += merch.PriceCents * int64(line.Quantity)
		}

		err := s.orderStore.Put(c, order.UID, order)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing order: %s", err))
		}

		return s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderPlaced{
			OrderUID:    order.UID,
			Email:       order.Email,
			AmountCents: order.AmountCents,
			LineCount:   len(order.Lines),
		})
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.Log(c, order.UID, mylog.SeverityInfo, "Created order %s for %s (%d cents)", order.UID, order.Email, order.AmountCents)

	return order, nil
}

// CompleteOrder marks an order as paid. Calling it again is a no-op.
func (s *Service) CompleteOrder(c context.Context, orderUID string) error {
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		existing, found, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", orderUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order %s not found", orderUID))
		}
		if existing.Status == StatusCompleted {
			return nil
		}

		existing.Status = StatusCompleted
		return s.orderStore.Put(c, orderUID, existing)
	})
	if err != nil {
		return err
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Marked order %s as completed", orderUID)

	return nil
}

func (s *Service) List(c context.Context) ([]Order, error) {
	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing orders: %s", err))
	}

	return orders, nil
}
