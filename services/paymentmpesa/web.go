package paymentmpesa

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sokohub/marketbackend/lib/mycontext"
	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/myhttp"
	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mypublisher"
	"github.com/sokohub/marketbackend/lib/myqueue"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
	"github.com/sokohub/marketbackend/services/paymentapi"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(payer Payer, sessionStore mystore.Store[paymentapi.PaymentSession], orders OrderPlacer, contributions ContributionPlacer, queue myqueue.TaskQueuer, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("paymentmpesa")
	return &webService{
		logger:  logger,
		service: newService(payer, sessionStore, orders, contributions, queue, publisher, nower, uuider, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	// exposed to the storefront
	router.HandleFunc("/mpesa/push", s.pushPage()).Methods("POST")
	router.HandleFunc("/mpesa/status", s.statusPage()).Methods("POST")

	// triggered by the task queue
	router.HandleFunc("/mpesa/poll/{sessionUID}", s.pollPage()).Methods("PUT")
}

func (s *webService) pushPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req, err := paymentapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		session, err := s.service.initiate(c, req)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, session)
	}
}

// statusPage looks up a session by our own UID or by the provider's
// checkoutRequestId, whichever the caller has.
func (s *webService) statusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		var session paymentapi.PaymentSession
		sessionUID := r.Form.Get("sessionUid")
		checkoutRequestID := r.Form.Get("checkoutRequestId")
		switch {
		case sessionUID != "":
			session, err = s.service.read(c, sessionUID)
		case checkoutRequestID != "":
			session, err = s.service.readByCheckoutRequestID(c, checkoutRequestID)
		default:
			err = myerrors.NewInvalidInputError(fmt.Errorf("missing sessionUid or checkoutRequestId"))
		}
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) pollPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]
		if sessionUID == "" {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("missing sessionUID")))
			return
		}

		err := s.service.pollOnce(c, sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{Message: fmt.Sprintf("Poll handled for session %s", sessionUID)})
	}
}
