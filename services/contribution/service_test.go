package contribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sokohub/marketbackend/lib/mylog"
	"github.com/sokohub/marketbackend/lib/mystore"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myuuid"
)

func TestPlaceContribution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, sut, storer, nower, uuider := setup(t, ctrl)

	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("contrib-1")

	contrib, err := sut.PlaceContribution(ctx, "project-1", "fan@example.com", 25000, "good luck with the demo")

	assert.NoError(t, err)
	assert.Equal(t, "contrib-1", contrib.UID)
	assert.Equal(t, int64(25000), contrib.AmountCents)

	stored, exists, _ := storer.Get(ctx, "contrib-1")
	assert.True(t, exists)
	assert.Equal(t, "project-1", stored.ProjectUID)
	assert.Equal(t, "good luck with the demo", stored.Comment)
}

func TestPlaceContributionBelowMinimum(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, sut, _, _, _ := setup(t, ctrl)

	_, err := sut.PlaceContribution(ctx, "project-1", "fan@example.com", 5000, "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "minimum donation is KES 100")
}

func TestPlaceContributionWithoutProject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, sut, _, _, _ := setup(t, ctrl)

	_, err := sut.PlaceContribution(ctx, "", "fan@example.com", 25000, "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "projectUid")
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *Service, mystore.Store[Contribution], *mytime.MockNower, *myuuid.MockUUIDer) {
	c := context.TODO()
	storer, _, _ := mystore.NewInMemoryStore[Contribution](c)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)

	sut := NewService(storer, nower, uuider, mylog.New("contribution"))

	return c, sut, storer, nower, uuider
}
