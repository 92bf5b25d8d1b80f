package myqueue

import (
	"context"
	"time"
)

// Task is a deferred webhook call. Delay postpones delivery, so a task can
// act as a timer owned by the aggregate named in UID.
type Task struct {
	UID            string
	WebhookURLPath string
	Payload        []byte
	Delay          time.Duration
}

var New func(c context.Context) (TaskQueuer, func(), error)

//go:generate mockgen -source=api.go -package myqueue -destination queuer_mock.go TaskQueuer
type TaskQueuer interface {
	Enqueue(c context.Context, task Task) error
}
