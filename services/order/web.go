package order

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sokohub/marketbackend/lib/mycontext"
	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/myhttp"
	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mypublisher"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
	"github.com/sokohub/marketbackend/services/catalog"
	"github.com/sokohub/marketbackend/services/paymentapi"
)

type webService struct {
	logger  mylog.Logger
	service *Service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(orderStore mystore.Store[Order], merchStore mystore.Store[catalog.Merchandise], publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("order")
	return &webService{
		logger:  logger,
		service: NewService(orderStore, merchStore, publisher, nower, uuider, logger),
	}
}

func (s *webService) Service() *Service {
	return s.service
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/order", s.placeOrderPage()).Methods("POST")
	router.HandleFunc("/order", s.listOrdersPage()).Methods("GET")
}

type placeOrderRequest struct {
	Email string                 `json:"email"`
	Items []paymentapi.OrderLine `json:"items"`
}

func (s *webService) placeOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := placeOrderRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		createdOrder, err := s.service.PlaceOrder(c, req.Email, req.Items)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, createdOrder)
	}
}

func (s *webService) listOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.List(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orders)
	}
}
