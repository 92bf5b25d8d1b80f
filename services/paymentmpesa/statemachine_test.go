package paymentmpesa

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sokohub/marketbackend/services/paymentapi"
)

func TestPollDecisionSuccess(t *testing.T) {
	decision := nextPollDecision(3, PollResult{Resolved: true, ResultCode: resultCodeSuccess, ResultDescription: "The service request is processed successfully."}, nil)

	assert.Equal(t, paymentapi.StatusSuccess, decision.Status)
	assert.True(t, decision.Done)
	assert.True(t, decision.Reconcile)
	assert.False(t, decision.Optimistic)
}

func TestPollDecisionCancelledByUser(t *testing.T) {
	decision := nextPollDecision(1, PollResult{Resolved: true, ResultCode: resultCodeCancelledByUser, ResultDescription: "Request cancelled by user"}, nil)

	assert.Equal(t, paymentapi.StatusFailed, decision.Status)
	assert.Equal(t, messagePaymentCancelled, decision.StatusMessage)
	assert.True(t, decision.Done)
	assert.False(t, decision.Reconcile)
}

func TestPollDecisionOtherFailureUsesProviderDescription(t *testing.T) {
	decision := nextPollDecision(2, PollResult{Resolved: true, ResultCode: 2001, ResultDescription: "The initiator information is invalid."}, nil)

	assert.Equal(t, paymentapi.StatusFailed, decision.Status)
	assert.Equal(t, "The initiator information is invalid.", decision.StatusMessage)
	assert.True(t, decision.Done)
	assert.False(t, decision.Reconcile)
}

func TestPollDecisionProviderTimeoutKeepsPolling(t *testing.T) {
	decision := nextPollDecision(4, PollResult{Resolved: true, ResultCode: resultCodeTimeout, ResultDescription: "DS timeout user cannot be reached"}, nil)

	assert.Equal(t, paymentapi.StatusPending, decision.Status)
	assert.False(t, decision.Done)
	assert.False(t, decision.Reconcile)
	assert.Equal(t, 15*time.Second, decision.NextPollIn)
}

func TestPollDecisionUnresolvedKeepsPolling(t *testing.T) {
	decision := nextPollDecision(1, PollResult{Resolved: false}, nil)

	assert.Equal(t, paymentapi.StatusPending, decision.Status)
	assert.False(t, decision.Done)
	assert.Equal(t, 12*time.Second, decision.NextPollIn)
}

func TestPollDecisionQueryErrorKeepsPollingWithLongerDelay(t *testing.T) {
	decision := nextPollDecision(2, PollResult{}, fmt.Errorf("connection reset"))

	assert.Equal(t, paymentapi.StatusPending, decision.Status)
	assert.False(t, decision.Done)
	assert.Equal(t, pollErrorDelay, decision.NextPollIn)
}

func TestPollDecisionBudgetExhaustedResolvesOptimistically(t *testing.T) {
	tests := []struct {
		name     string
		result   PollResult
		queryErr error
	}{
		{name: "still unresolved", result: PollResult{Resolved: false}},
		{name: "provider timeout", result: PollResult{Resolved: true, ResultCode: resultCodeTimeout}},
		{name: "query error", queryErr: fmt.Errorf("deadline exceeded")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := nextPollDecision(maxPollAttempts, tc.result, tc.queryErr)

			assert.Equal(t, paymentapi.StatusSuccess, decision.Status)
			assert.True(t, decision.Done)
			assert.True(t, decision.Reconcile)
			assert.True(t, decision.Optimistic)
			assert.Equal(t, messageOptimisticSuccess, decision.StatusMessage)
		})
	}
}

func TestPollDecisionDefiniteOutcomeBeatsExhaustedBudget(t *testing.T) {
	decision := nextPollDecision(maxPollAttempts, PollResult{Resolved: true, ResultCode: resultCodeCancelledByUser}, nil)

	assert.Equal(t, paymentapi.StatusFailed, decision.Status)
	assert.False(t, decision.Optimistic)
}

func TestBackoffDelayGrowsToCap(t *testing.T) {
	assert.Equal(t, 12*time.Second, backoffDelay(1))
	assert.Equal(t, 14*time.Second, backoffDelay(2))
	assert.Equal(t, 15*time.Second, backoffDelay(3))
	assert.Equal(t, 15*time.Second, backoffDelay(10))
}

func TestPollLoopTypicalSequence(t *testing.T) {
	// two inconclusive polls followed by a confirmed payment
	first := nextPollDecision(1, PollResult{Resolved: false}, nil)
	assert.False(t, first.Done)

	second := nextPollDecision(2, PollResult{Resolved: true, ResultCode: resultCodeTimeout}, nil)
	assert.False(t, second.Done)

	third := nextPollDecision(3, PollResult{Resolved: true, ResultCode: resultCodeSuccess}, nil)
	assert.True(t, third.Done)
	assert.True(t, third.Reconcile)
	assert.Equal(t, paymentapi.StatusSuccess, third.Status)
}
