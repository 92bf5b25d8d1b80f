package paymentevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/myevents"
)

const (
	TopicName                = "payment"
	paymentInitiatedName     = TopicName + ".initiated"
	paymentCompletedName     = TopicName + ".completed"
	reconciliationFailedName = TopicName + ".reconciliationFailed"
)

type PaymentEventService interface {
	Subscribe(c context.Context) error
	OnPaymentInitiated(c context.Context, topic string, event PaymentInitiated) error
	OnPaymentCompleted(c context.Context, topic string, event PaymentCompleted) error
	OnReconciliationFailed(c context.Context, topic string, event ReconciliationFailed) error
}

func DispatchEvent(c context.Context, reader io.Reader, service PaymentEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case paymentInitiatedName:
		{
			event := PaymentInitiated{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentInitiated(c, envelope.Topic, event)
		}
	case paymentCompletedName:
		{
			event := PaymentCompleted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentCompleted(c, envelope.Topic, event)
		}
	case reconciliationFailedName:
		{
			event := ReconciliationFailed{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnReconciliationFailed(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event %s", envelope.EventTypeName))
	}
}

type PaymentInitiated struct {
	SessionUID        string
	CheckoutUID       string
	Kind              string
	PhoneNumber       string
	AmountCents       int64
	CheckoutRequestID string
}

func (e PaymentInitiated) GetEventTypeName() string {
	return paymentInitiatedName
}

func (e PaymentInitiated) GetAggregateName() string {
	return e.SessionUID
}

type PaymentCompleted struct {
	SessionUID    string
	Status        string
	StatusDetails string
	Attempts      int
	Optimistic    bool
}

func (e PaymentCompleted) GetEventTypeName() string {
	return paymentCompletedName
}

func (e PaymentCompleted) GetAggregateName() string {
	return e.SessionUID
}

// ReconciliationFailed is the dangerous case: the charge was (likely)
// accepted but no order or contribution could be recorded for it.
type ReconciliationFailed struct {
	SessionUID  string
	Kind        string
	Email       string
	AmountCents int64
	Details     string
}

func (e ReconciliationFailed) GetEventTypeName() string {
	return reconciliationFailedName
}

func (e ReconciliationFailed) GetAggregateName() string {
	return e.SessionUID
}
