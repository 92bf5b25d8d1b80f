package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sokohub/marketbackend/lib/mycontext"
	"github.com/sokohub/marketbackend/lib/myerrors"
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

func NewWebService(merchStore mystore.Store[Merchandise], nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("catalog")
	return &webService{
		logger:  logger,
		service: NewService(merchStore, nower, uuider, logger),
	}
}

func (s *webService) Service() *Service {
	return s.service
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/merchandise", s.upsertMerchandisePage()).Methods("PUT")
	router.HandleFunc("/merchandise", s.listMerchandisePage()).Methods("GET")
}

func (s *webService) upsertMerchandisePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		merch := Merchandise{}
		err := json.NewDecoder(r.Body).Decode(&merch)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		stored, err := s.service.Upsert(c, merch)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, stored)
	}
}

func (s *webService) listMerchandisePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		merch, err := s.service.List(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, merch)
	}
}
