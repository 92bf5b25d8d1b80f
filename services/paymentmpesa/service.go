package paymentmpesa

import (
	"context"
	"fmt"
	"time"

	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mypublisher"
	"github.com/sokohub/marketbackend/lib/myqueue"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
	"github.com/sokohub/marketbackend/services/contribution"
	"github.com/sokohub/marketbackend/services/paymentapi"
	"github.com/sokohub/marketbackend/services/paymentevents"
)

type service struct {
	payer         Payer
	sessionStore  mystore.Store[paymentapi.PaymentSession]
	orders        OrderPlacer
	contributions ContributionPlacer
	queue         myqueue.TaskQueuer
	publisher     mypublisher.Publisher
	nower         mytime.Nower
	uuider        myuuid.UUIDer
	logger        mylog.Logger
}

func newService(payer Payer, sessionStore mystore.Store[paymentapi.PaymentSession], orders OrderPlacer, contributions ContributionPlacer, queue myqueue.TaskQueuer, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		payer:         payer,
		sessionStore:  sessionStore,
		orders:        orders,
		contributions: contributions,
		queue:         queue,
		publisher:     publisher,
		nower:         nower,
		uuider:        uuider,
		logger:        logger,
	}
}

// initiate validates the checkout, asks the provider to push a payment
// prompt to the buyer's phone and, when the push is accepted, stores a
// pending session and schedules the first status poll. Earlier pending
// sessions for the same checkout are abandoned so their polls become no-ops.
func (s *service) initiate(c context.Context, req paymentapi.CheckoutRequest) (paymentapi.PaymentSession, error) {
	now := s.nower.Now()

	session := paymentapi.PaymentSession{
		UID:         s.uuider.Create(),
		CheckoutUID: req.CheckoutUID,
		Kind:        req.Kind,
		PhoneNumber: req.PhoneNumber,
		AmountCents: req.AmountCents,
		Email:       req.Email,
		Lines:       req.Lines,
		ProjectUID:  req.ProjectUID,
		Comment:     req.Comment,
		Status:      paymentapi.StatusIdle,
		CreatedAt:   now,
	}

	err := validateCheckoutRequest(req)
	if err != nil {
		return session, err
	}

	// fail fast before touching the provider
	if !isValidKenyanPhone(req.PhoneNumber) {
		return session, myerrors.NewInvalidInputError(fmt.Errorf("invalid phone number %q", req.PhoneNumber))
	}
	normalized := normalizeKenyanPhone(req.PhoneNumber)
	session.NormalizedPhone = normalized
	session.AccountReference = fmt.Sprintf("ORDER-%d", now.UnixMilli())

	pushResp, err := s.payer.RequestPush(c, PushRequest{
		PhoneNumber:      normalized,
		Amount:           req.AmountCents / 100,
		AccountReference: session.AccountReference,
		Description:      fmt.Sprintf("%s payment", req.Kind),
	})
	if err != nil {
		session.Status = paymentapi.StatusFailed
		session.StatusMessage = fmt.Sprintf("Push request not accepted: %s", err)
		storeErr := s.sessionStore.Put(c, session.UID, session)
		if storeErr != nil {
			s.logger.Log(c, session.UID, mylog.SeverityError, "Error storing rejected session %s: %s", session.UID, storeErr)
		}
		return session, myerrors.NewInternalError(fmt.Errorf("error requesting push for session %s: %s", session.UID, err))
	}

	session.CheckoutRequestID = pushResp.CheckoutRequestID
	session.Status = paymentapi.StatusPending
	session.StatusMessage = messagePushSent
	session.LastModified = &now

	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		err := s.abandonEarlierAttempts(c, session.CheckoutUID)
		if err != nil {
			return err
		}

		err = s.sessionStore.Put(c, session.UID, session)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing session %s: %s", session.UID, err))
		}

		err = s.publisher.Publish(c, paymentevents.TopicName, paymentevents.PaymentInitiated{
			SessionUID:        session.UID,
			CheckoutUID:       session.CheckoutUID,
			Kind:              string(session.Kind),
			PhoneNumber:       session.NormalizedPhone,
			AmountCents:       session.AmountCents,
			CheckoutRequestID: session.CheckoutRequestID,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing PaymentInitiated for session %s: %s", session.UID, err))
		}

		return nil
	})
	if err != nil {
		return session, err
	}

	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Push accepted for session %s (checkoutRequestId %s)", session.UID, session.CheckoutRequestID)

	// record the order right away so a buyer who pays is never left without
	// one, even if every later poll fails
	err = s.reconcile(c, session.UID)
	if err != nil {
		s.logger.Log(c, session.UID, mylog.SeverityError, "Error reconciling session %s after push: %s", session.UID, err)
	}

	err = s.scheduleNextPoll(c, session.UID, 1, firstPollDelay)
	if err != nil {
		return session, err
	}

	return s.read(c, session.UID)
}

func validateCheckoutRequest(req paymentapi.CheckoutRequest) error {
	if req.CheckoutUID == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing checkoutUid"))
	}
	if req.AmountCents <= 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("invalid amountCents %d", req.AmountCents))
	}
	// the provider charges whole shillings
	if req.AmountCents%100 != 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("amountCents %d is not a whole KES amount", req.AmountCents))
	}
	switch req.Kind {
	case paymentapi.KindOrder:
		if req.Email == "" {
			return myerrors.NewInvalidInputError(fmt.Errorf("missing email"))
		}
		if len(req.Lines) == 0 {
			return myerrors.NewInvalidInputError(fmt.Errorf("missing order lines"))
		}
	case paymentapi.KindContribution:
		if req.ProjectUID == "" {
			return myerrors.NewInvalidInputError(fmt.Errorf("missing projectUid"))
		}
		// statically known rule: reject before the phone is charged instead
		// of failing reconciliation after a successful payment
		if req.AmountCents < contribution.MinimumAmountCents {
			return myerrors.NewInvalidInputError(fmt.Errorf("minimum donation is KES %d", contribution.MinimumAmountCents/100))
		}
	default:
		return myerrors.NewInvalidInputError(fmt.Errorf("unknown kind %s", req.Kind))
	}

	return nil
}

func (s *service) abandonEarlierAttempts(c context.Context, checkoutUID string) error {
	earlier, err := s.sessionStore.Query(c, []mystore.Filter{
		{Field: "CheckoutUID", Compare: "=", Value: checkoutUID},
		{Field: "Status", Compare: "=", Value: paymentapi.StatusPending},
	}, "CreatedAt")
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error querying sessions for checkout %s: %s", checkoutUID, err))
	}

	for _, prev := range earlier {
		if prev.Abandoned {
			continue
		}
		prev.Abandoned = true
		err = s.sessionStore.Put(c, prev.UID, prev)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error abandoning session %s: %s", prev.UID, err))
		}
	}

	return nil
}

// pollOnce performs one status query against the provider and applies the
// outcome. It is triggered by the task queue and must tolerate duplicate
// and stale deliveries.
func (s *service) pollOnce(c context.Context, sessionUID string) error {
	session, found, err := s.sessionStore.Get(c, sessionUID)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error fetching session %s: %s", sessionUID, err))
	}
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("session %s not found", sessionUID))
	}
	if session.Status.IsTerminal() || session.Abandoned {
		s.logger.Log(c, sessionUID, mylog.SeverityDebug, "Skipping poll for settled session %s", sessionUID)
		return nil
	}

	result, queryErr := s.payer.QueryStatus(c, session.CheckoutRequestID)
	if queryErr != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Status query failed for session %s: %s", sessionUID, queryErr)
	}

	attempts := session.Attempts + 1
	decision := nextPollDecision(attempts, result, queryErr)

	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		session, found, err := s.sessionStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching session %s: %s", sessionUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("session %s not found", sessionUID))
		}
		if session.Status.IsTerminal() || session.Abandoned {
			return nil
		}

		now := s.nower.Now()
		session.Attempts = attempts
		session.Status = decision.Status
		session.StatusMessage = decision.StatusMessage
		session.LastModified = &now

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing session %s: %s", sessionUID, err))
		}

		if decision.Done {
			err = s.publisher.Publish(c, paymentevents.TopicName, paymentevents.PaymentCompleted{
				SessionUID:    sessionUID,
				Status:        string(decision.Status),
				StatusDetails: decision.StatusMessage,
				Attempts:      attempts,
				Optimistic:    decision.Optimistic,
			})
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error publishing PaymentCompleted for session %s: %s", sessionUID, err))
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Poll %d for session %s: status %s (%s)", attempts, sessionUID, decision.Status, decision.StatusMessage)

	if decision.Reconcile {
		err = s.reconcile(c, sessionUID)
		if err != nil {
			return err
		}
	}

	// an optimistic success is not a confirmation, the order stays pending
	if decision.Done && decision.Status == paymentapi.StatusSuccess && !decision.Optimistic {
		err = s.completeOrder(c, sessionUID)
		if err != nil {
			return err
		}
	}

	if !decision.Done {
		return s.scheduleNextPoll(c, sessionUID, attempts+1, decision.NextPollIn)
	}

	return nil
}

func (s *service) completeOrder(c context.Context, sessionUID string) error {
	session, err := s.read(c, sessionUID)
	if err != nil {
		return err
	}
	if session.Kind != paymentapi.KindOrder || session.OrderUID == "" {
		return nil
	}

	return s.orders.CompleteOrder(c, session.OrderUID)
}

func (s *service) scheduleNextPoll(c context.Context, sessionUID string, pollNumber int, delay time.Duration) error {
	err := s.queue.Enqueue(c, myqueue.Task{
		UID:            fmt.Sprintf("%s-poll-%d", sessionUID, pollNumber),
		WebhookURLPath: fmt.Sprintf("/mpesa/poll/%s", sessionUID),
		Delay:          delay,
	})
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error scheduling poll %d for session %s: %s", pollNumber, sessionUID, err))
	}

	return nil
}

// reconcile records the order or contribution a session paid for, at most
// once per session. A failure after the claim leaves the session flagged
// for manual follow-up instead of risking a duplicate order on retry.
func (s *service) reconcile(c context.Context, sessionUID string) error {
	var session paymentapi.PaymentSession
	alreadyClaimed := false

	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		session, found, err = s.sessionStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching session %s: %s", sessionUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("session %s not found", sessionUID))
		}
		if session.Reconciled {
			alreadyClaimed = true
			return nil
		}

		session.Reconciled = true
		return s.sessionStore.Put(c, sessionUID, session)
	})
	if err != nil {
		return err
	}
	if alreadyClaimed {
		s.logger.Log(c, sessionUID, mylog.SeverityDebug, "Session %s already reconciled", sessionUID)
		return nil
	}

	var recordUID string
	switch session.Kind {
	case paymentapi.KindContribution:
		recordUID, err = s.contributions.PlaceContribution(c, session.ProjectUID, session.Email, session.AmountCents, session.Comment)
	default:
		recordUID, err = s.orders.PlaceOrder(c, session.Email, session.Lines)
	}
	if err != nil {
		return s.markReconcileFailed(c, sessionUID, err)
	}

	return s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		session, found, err := s.sessionStore.Get(c, sessionUID)
		if err != nil || !found {
			return myerrors.NewInternalError(fmt.Errorf("error re-fetching session %s: %s", sessionUID, err))
		}

		now := s.nower.Now()
		session.OrderUID = recordUID
		session.LastModified = &now
		return s.sessionStore.Put(c, sessionUID, session)
	})
}

func (s *service) markReconcileFailed(c context.Context, sessionUID string, cause error) error {
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		session, found, err := s.sessionStore.Get(c, sessionUID)
		if err != nil || !found {
			return myerrors.NewInternalError(fmt.Errorf("error re-fetching session %s: %s", sessionUID, err))
		}

		now := s.nower.Now()
		session.ReconcileFailed = true
		session.StatusMessage = messageSupportNeeded
		session.LastModified = &now

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing session %s: %s", sessionUID, err))
		}

		return s.publisher.Publish(c, paymentevents.TopicName, paymentevents.ReconciliationFailed{
			SessionUID:  sessionUID,
			Kind:        string(session.Kind),
			Email:       session.Email,
			AmountCents: session.AmountCents,
			Details:     cause.Error(),
		})
	})
	if err != nil {
		return err
	}

	return myerrors.NewInternalError(fmt.Errorf("payment for session %s succeeded but could not be recorded: %s", sessionUID, cause))
}

func (s *service) read(c context.Context, sessionUID string) (paymentapi.PaymentSession, error) {
	session, found, err := s.sessionStore.Get(c, sessionUID)
	if err != nil {
		return session, myerrors.NewInternalError(fmt.Errorf("error fetching session %s: %s", sessionUID, err))
	}
	if !found {
		return session, myerrors.NewNotFoundError(fmt.Errorf("session %s not found", sessionUID))
	}

	return session, nil
}

// readByCheckoutRequestID serves status lookups keyed by the provider's
// push identifier rather than our session UID.
func (s *service) readByCheckoutRequestID(c context.Context, checkoutRequestID string) (paymentapi.PaymentSession, error) {
	sessions, err := s.sessionStore.Query(c, []mystore.Filter{
		{Field: "CheckoutRequestID", Compare: "=", Value: checkoutRequestID},
	}, "CreatedAt")
	if err != nil {
		return paymentapi.PaymentSession{}, myerrors.NewInternalError(fmt.Errorf("error querying sessions for checkoutRequestId %s: %s", checkoutRequestID, err))
	}
	if len(sessions) == 0 {
		return paymentapi.PaymentSession{}, myerrors.NewNotFoundError(fmt.Errorf("no session for checkoutRequestId %s", checkoutRequestID))
	}

	return sessions[len(sessions)-1], nil
}
