package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/sokohub/marketbackend/lib/myhttpclient"
	"github.com/sokohub/marketbackend/lib/mypublisher"
	"github.com/sokohub/marketbackend/lib/mypubsub"
	"github.com/sokohub/marketbackend/lib/myqueue"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
	"github.com/sokohub/marketbackend/lib/myvault"
	"github.com/sokohub/marketbackend/services/catalog"
	"github.com/sokohub/marketbackend/services/contribution"
	"github.com/sokohub/marketbackend/services/order"
	"github.com/sokohub/marketbackend/services/order/orderevents"
	"github.com/sokohub/marketbackend/services/paymentapi"
	"github.com/sokohub/marketbackend/services/paymentevents"
	"github.com/sokohub/marketbackend/services/paymentmpesa"
)

func main() {
	c := context.Background()

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	for _, topic := range []string{paymentevents.TopicName, orderevents.TopicName} {
		err = publisher.CreateTopic(c, topic)
		if err != nil {
			log.Fatalf("Error creating topic %s: %s", topic, err)
		}
	}

	merchStore, merchCleanup, err := mystore.New[catalog.Merchandise](c)
	if err != nil {
		log.Fatalf("Error creating merchandise store: %s", err)
	}
	defer merchCleanup()
	catalogService := catalog.NewWebService(merchStore, nower, uuider)
	catalogService.RegisterEndpoints(c, router)

	orderStore, orderCleanup, err := mystore.New[order.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderCleanup()
	orderService := order.NewWebService(orderStore, merchStore, publisher, nower, uuider)
	orderService.RegisterEndpoints(c, router)

	contributionStore, contributionCleanup, err := mystore.New[contribution.Contribution](c)
	if err != nil {
		log.Fatalf("Error creating contribution store: %s", err)
	}
	defer contributionCleanup()
	contributionService := contribution.NewWebService(contributionStore, nower, uuider)
	contributionService.RegisterEndpoints(c, router)

	sessionStore, sessionCleanup, err := mystore.New[paymentapi.PaymentSession](c)
	if err != nil {
		log.Fatalf("Error creating session store: %s", err)
	}
	defer sessionCleanup()

	tokenVault, vaultCleanup, err := myvault.New[paymentmpesa.AccessToken](c)
	if err != nil {
		log.Fatalf("Error creating token vault: %s", err)
	}
	defer vaultCleanup()

	payer := paymentmpesa.NewPayer(darajaConfigFromEnv(), myhttpclient.NewJSONHTTPClient(), tokenVault, nower)
	paymentService := paymentmpesa.NewWebService(payer, sessionStore,
		orderPlacerAdapter{service: orderService.Service()},
		contributionPlacerAdapter{service: contributionService.Service()},
		queue, publisher, nower, uuider)
	paymentService.RegisterEndpoints(c, router)

	startWebServerBlocking(router)
}

func darajaConfigFromEnv() paymentmpesa.DarajaConfig {
	baseURL := os.Getenv("MPESA_BASE_URL")
	if baseURL == "" {
		baseURL = "https://sandbox.safaricom.co.ke"
	}

	return paymentmpesa.DarajaConfig{
		BaseURL:        baseURL,
		ShortCode:      os.Getenv("MPESA_SHORT_CODE"),
		Passkey:        os.Getenv("MPESA_PASSKEY"),
		ConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		CallbackURL:    os.Getenv("MPESA_CALLBACK_URL"),
	}
}

type orderPlacerAdapter struct {
	service *order.Service
}

func (a orderPlacerAdapter) PlaceOrder(c context.Context, email string, lines []paymentapi.OrderLine) (string, error) {
	created, err := a.service.PlaceOrder(c, email, lines)
	if err != nil {
		return "", err
	}

	return created.UID, nil
}

func (a orderPlacerAdapter) CompleteOrder(c context.Context, orderUID string) error {
	return a.service.CompleteOrder(c, orderUID)
}

type contributionPlacerAdapter struct {
	service *contribution.Service
}

func (a contributionPlacerAdapter) PlaceContribution(c context.Context, projectUID string, email string, amountCents int64, comment string) (string, error) {
	created, err := a.service.PlaceContribution(c, projectUID, email, amountCents, comment)
	if err != nil {
		return "", err
	}

	return created.UID, nil
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
