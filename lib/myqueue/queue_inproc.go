package myqueue

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/sokohub/marketbackend/lib/myhttp"
	"github.com/sokohub/marketbackend/lib/myhttpclient"
)

// inprocTaskQueue imitates the cloud task-queue when running locally:
// the webhook is called back on the own process after the requested delay.
type inprocTaskQueue struct {
	httpClient myhttpclient.HTTPSender
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newInprocQueue
	}
}

func newInprocQueue(c context.Context) (TaskQueuer, func(), error) {
	return &inprocTaskQueue{
		httpClient: myhttpclient.NewJSONHTTPClient(),
	}, func() {}, nil
}

func (q *inprocTaskQueue) Enqueue(c context.Context, task Task) error {
	url := myhttp.LocalHostnameWithScheme() + task.WebhookURLPath

	time.AfterFunc(task.Delay, func() {
		httpStatus, _, err := q.httpClient.Send(context.Background(), "PUT", url, task.Payload, nil)
		if err != nil {
			log.Printf("error delivering task %s to %s: %s", task.UID, url, err)
			return
		}
		if httpStatus < 200 || httpStatus >= 300 {
			log.Printf("task %s delivered to %s -> http %d", task.UID, url, httpStatus)
		}
	})

	return nil
}
