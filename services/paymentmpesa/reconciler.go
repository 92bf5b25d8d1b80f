package paymentmpesa

import (
	"context"

	"github.com/sokohub/marketbackend/services/paymentapi"
)

//go:generate mockgen -source=reconciler.go -package paymentmpesa -destination reconciler_mock.go OrderPlacer,ContributionPlacer

// OrderPlacer records a paid-for order and later marks it as paid once the
// provider confirmed the payment.
type OrderPlacer interface {
	PlaceOrder(c context.Context, email string, lines []paymentapi.OrderLine) (string, error)
	CompleteOrder(c context.Context, orderUID string) error
}

// ContributionPlacer records a paid-for project contribution.
type ContributionPlacer interface {
	PlaceContribution(c context.Context, projectUID string, email string, amountCents int64, comment string) (string, error)
}
