package catalog

import (
	"context"
	"fmt"

	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
)

type Service struct {
	merchStore mystore.Store[Merchandise]
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(merchStore mystore.Store[Merchandise], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *Service {
	return &Service{
		merchStore: merchStore,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

func (s *Service) Upsert(c context.Context, merch Merchandise) (Merchandise, error) {
	now := s.nower.Now()

	if merch.Name == "" {
		return Merchandise{}, myerrors.NewInvalidInputErrorf("missing name")
	}
	if merch.PriceCents <= 0 {
		return Merchandise{}, myerrors.NewInvalidInputErrorf("price must be positive")
	}
	if merch.Stock < 0 {
		return Merchandise{}, myerrors.NewInvalidInputErrorf("stock must not be negative")
	}

	err := s.merchStore.RunInTransaction(c, func(c context.Context) error {
		if merch.UID == "" {
			merch.UID = s.uuider.Create()
			merch.CreatedAt = now
		} else {
			existing, found, err := s.merchStore.Get(c, merch.UID)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			if !found {
				return myerrors.NewNotFoundError(fmt.Errorf("merchandise with uid %s not found", merch.UID))
			}
			merch.CreatedAt = existing.CreatedAt
		}
		merch.LastModified = &now

		return s.merchStore.Put(c, merch.UID, merch)
	})
	if err != nil {
		return Merchandise{}, err
	}

	s.logger.Log(c, merch.UID, mylog.SeverityInfo, "Stored merchandise %s (%s)", merch.UID, merch.Name)

	return merch, nil
}

func (s *Service) List(c context.Context) ([]Merchandise, error) {
	merch, err := s.merchStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing merchandise: %s", err))
	}

	return merch, nil
}
