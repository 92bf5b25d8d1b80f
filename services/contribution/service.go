package contribution

import (
	"context"
	"fmt"

	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
)

// MinimumAmountCents is the smallest accepted donation. Callers that charge
// before placing should enforce it up front as well.
const MinimumAmountCents = 100 * 100 // KES 100

type Service struct {
	contributionStore mystore.Store[Contribution]
	nower             mytime.Nower
	uuider            myuuid.UUIDer
	logger            mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(contributionStore mystore.Store[Contribution], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *Service {
	return &Service{
		contributionStore: contributionStore,
		nower:             nower,
		uuider:            uuider,
		logger:            logger,
	}
}

func (s *Service) PlaceContribution(c context.Context, projectUID string, email string, amountCents int64, comment string) (Contribution, error) {
	if projectUID == "" {
		return Contribution{}, myerrors.NewInvalidInputErrorf("projectUid is required")
	}
	if amountCents < MinimumAmountCents {
		return Contribution{}, myerrors.NewInvalidInputErrorf("minimum donation is KES %d", MinimumAmountCents/100)
	}

	contrib := Contribution{
		UID:         s.uuider.Create(),
		ProjectUID:  projectUID,
		Email:       email,
		AmountCents: amountCents,
		Comment:     comment,
		CreatedAt:   s.nower.Now(),
	}

	err := s.contributionStore.Put(c, contrib.UID, contrib)
	if err != nil {
		return Contribution{}, myerrors.NewInternalError(fmt.Errorf("error storing contribution: %s", err))
	}

	s.logger.Log(c, contrib.UID, mylog.SeverityInfo, "Recorded contribution %s of %d cents for project %s", contrib.UID, contrib.AmountCents, contrib.ProjectUID)

	return contrib, nil
}

func (s *Service) List(c context.Context) ([]Contribution, error) {
	contribs, err := s.contributionStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing contributions: %s", err))
	}

	return contribs, nil
}
