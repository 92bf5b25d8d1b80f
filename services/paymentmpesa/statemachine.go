package paymentmpesa

import (
	"time"

	"github.com/sokohub/marketbackend/services/paymentapi"
)

// Daraja result codes
const (
	resultCodeSuccess         = 0
	resultCodeCancelledByUser = 1032
	resultCodeTimeout         = 1037 // payer unreachable, may still pay later
)

const (
	// give the provider time to deliver the push to the handset before
	// the first status query
	firstPollDelay = 5 * time.Second

	basePollDelay      = 10 * time.Second
	pollDelayIncrement = 2 * time.Second
	maxPollDelay       = 15 * time.Second

	// wait longer after a failed status query
	pollErrorDelay = 15 * time.Second

	maxPollAttempts = 12
)

const (
	messagePushSent          = "Push sent, complete the payment on your phone"
	messagePaymentSuccessful = "Payment successful"
	messagePaymentCancelled  = "Payment cancelled by user"
	messageOptimisticSuccess = "Payment may still be processing, your order has been recorded"
	messageAwaitingPayer     = "Awaiting confirmation on your phone"
	messageSupportNeeded     = "Payment succeeded but your order could not be recorded, please contact support"
)

// pollDecision is what a single status poll concluded: the new session
// status, whether the poll loop is done, whether an order must be
// reconciled and if not done, when to poll again.
type pollDecision struct {
	Status        paymentapi.SessionStatus
	StatusMessage string
	Reconcile     bool
	Done          bool
	Optimistic    bool
	NextPollIn    time.Duration
}

// nextPollDecision is a pure function so every branch can be tested without
// timers. attempts is the number of polls performed, including the one that
// produced result/queryErr.
func nextPollDecision(attempts int, result PollResult, queryErr error) pollDecision {
	budgetExhausted := attempts >= maxPollAttempts

	if queryErr != nil {
		// transient: absorbed into the retry budget
		if budgetExhausted {
			return optimisticSuccess()
		}
		return keepPolling(pollErrorDelay)
	}

	if !result.Resolved {
		if budgetExhausted {
			return optimisticSuccess()
		}
		return keepPolling(backoffDelay(attempts))
	}

	switch result.ResultCode {
	case resultCodeSuccess:
		return pollDecision{
			Status:        paymentapi.StatusSuccess,
			StatusMessage: messagePaymentSuccessful,
			Reconcile:     true,
			Done:          true,
		}
	case resultCodeCancelledByUser:
		return pollDecision{
			Status:        paymentapi.StatusFailed,
			StatusMessage: messagePaymentCancelled,
			Done:          true,
		}
	case resultCodeTimeout:
		// the provider gave up reaching the payer, but the payer can still
		// complete the payment afterwards: not terminal
		if budgetExhausted {
			return optimisticSuccess()
		}
		return keepPolling(backoffDelay(attempts))
	default:
		return pollDecision{
			Status:        paymentapi.StatusFailed,
			StatusMessage: result.ResultDescription,
			Done:          true,
		}
	}
}

func keepPolling(delay time.Duration) pollDecision {
	return pollDecision{
		Status:        paymentapi.StatusPending,
		StatusMessage: messageAwaitingPayer,
		NextPollIn:    delay,
	}
}

// optimisticSuccess resolves an exhausted retry budget in favour of the
// buyer: the charge may still land, so the order is recorded rather than
// blocking the user indefinitely.
func optimisticSuccess() pollDecision {
	return pollDecision{
		Status:        paymentapi.StatusSuccess,
		StatusMessage: messageOptimisticSuccess,
		Reconcile:     true,
		Done:          true,
		Optimistic:    true,
	}
}

// backoffDelay grows with the number of attempts up to a capped ceiling,
// and never drops below the initial grace period.
func backoffDelay(attempts int) time.Duration {
	delay := basePollDelay + time.Duration(attempts)*pollDelayIncrement
	if delay > maxPollDelay {
		delay = maxPollDelay
	}
	return delay
}
