package contribution

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sokohub/marketbackend/lib/mycontext"
	"github.com/sokohub/marketbackend/lib/myhttp"
	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
)

type webService struct {
	logger  mylog.Logger
	service *Service
}

func NewWebService(contributionStore mystore.Store[Contribution], nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("contribution")
	return &webService{
		logger:  logger,
		service: NewService(contributionStore, nower, uuider, logger),
	}
}

func (s *webService) Service() *Service {
	return s.service
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/contribution", s.listContributionsPage()).Methods("GET")
}

func (s *webService) listContributionsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		contribs, err := s.service.List(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, contribs)
	}
}
