package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ilya-burinskiy/repairguides/internal/app/models"
	"github.com/ilya-burinskiy/repairguides/internal/app/services"
	"github.com/ilya-burinskiy/repairguides/internal/app/storage/mocks"
)

const guideURLPrefix = "https://www.ifixit.com/Guide/"

type guideFetcherMock struct{ mock.Mock }

func (m *guideFetcherMock) Fetch(ctx context.Context, device string) (json.RawMessage, error) {
	args := m.Called(ctx, device)
	payload, _ := args.Get(0).(json.RawMessage)
	return payload, args.Error(1)
}

// recordMatcher compares records ignoring generated id and creation time
type recordMatcher struct{ want models.RepairRecord }

func (m recordMatcher) Matches(x interface{}) bool {
	got, ok := x.(models.RepairRecord)
	if !ok || got.ID == "" || got.CreatedAt.IsZero() {
		return false
	}
	got.ID = ""
	got.CreatedAt = m.want.CreatedAt
	return got == m.want
}

func (m recordMatcher) String() string {
	return "is record " + m.want.Issue + " of " + m.want.Device
}

func eqRecord(r models.RepairRecord) gomock.Matcher {
	return recordMatcher{want: r}
}

var (
	screenRecord = models.RepairRecord{
		Issue:        "Cracked Screen",
		Device:       "iPhone12",
		GuideURL:     guideURLPrefix + "123",
		Difficulty:   "Moderate",
		TimeRequired: models.Unknown,
	}
	batteryRecord = models.RepairRecord{
		Issue:        "Battery",
		Device:       "iPhone12",
		GuideURL:     guideURLPrefix + "456",
		Difficulty:   models.Unknown,
		TimeRequired: models.Unknown,
	}
)

func TestGuidePersisterPersist(t *testing.T) {
	ctrl := gomock.NewController(t)
	storageMock := mocks.NewMockStorage(ctrl)
	gomock.InOrder(
		storageMock.EXPECT().Create(gomock.Any(), eqRecord(screenRecord)).Return(nil),
		storageMock.EXPECT().Create(gomock.Any(), eqRecord(batteryRecord)).Return(nil),
	)
	fetcher := new(guideFetcherMock)
	fetcher.On("Fetch", mock.Anything, "iPhone12").Return(json.RawMessage(guidesPayload), nil).Once()

	persister := services.NewGuidePersister(fetcher, storageMock, guideURLPrefix)
	err := persister.Persist(context.Background(), "iPhone12")

	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestGuidePersisterPersistKeepsOptionalFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	storageMock := mocks.NewMockStorage(ctrl)
	storageMock.EXPECT().
		Create(gomock.Any(), eqRecord(models.RepairRecord{
			Issue:        "Charging Port",
			Device:       "Pixel 6",
			GuideURL:     guideURLPrefix + "789",
			Difficulty:   "Difficult",
			TimeRequired: "1 - 2 hours",
		})).
		Return(nil)
	fetcher := new(guideFetcherMock)
	fetcher.On("Fetch", mock.Anything, "Pixel 6").Return(
		json.RawMessage(`[{"title":"Charging Port","guideid":789,"difficulty":"Difficult","time_required":"1 - 2 hours","url":"ignored"}]`),
		nil,
	)

	persister := services.NewGuidePersister(fetcher, storageMock, guideURLPrefix)
	require.NoError(t, persister.Persist(context.Background(), "Pixel 6"))
}

func TestGuidePersisterPersistStopsAtFirstFailedWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	storageMock := mocks.NewMockStorage(ctrl)
	writeErr := errors.New("write failed")
	gomock.InOrder(
		storageMock.EXPECT().Create(gomock.Any(), eqRecord(screenRecord)).Return(nil),
		storageMock.EXPECT().Create(gomock.Any(), eqRecord(batteryRecord)).Return(writeErr),
	)
	fetcher := new(guideFetcherMock)
	fetcher.On("Fetch", mock.Anything, "iPhone12").Return(
		json.RawMessage(`[
			{"title":"Cracked Screen","guideid":123,"difficulty":"Moderate"},
			{"title":"Battery","guideid":456},
			{"title":"Camera","guideid":789}
		]`),
		nil,
	)

	persister := services.NewGuidePersister(fetcher, storageMock, guideURLPrefix)
	err := persister.Persist(context.Background(), "iPhone12")

	var persistErr *services.PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, 1, persistErr.Index)
	assert.ErrorIs(t, err, writeErr)
}

func TestGuidePersisterPersistFailsWithoutWrites(t *testing.T) {
	testCases := []struct {
		name     string
		payload  json.RawMessage
		fetchErr error
		wantErr  error
	}{
		{
			name:     "fetch failure propagates",
			fetchErr: services.ErrFetchGuides,
			wantErr:  services.ErrFetchGuides,
		},
		{
			name:    "object payload",
			payload: json.RawMessage(`{"error":"no results"}`),
			wantErr: services.ErrUnexpectedPayload,
		},
		{
			name:    "null payload",
			payload: json.RawMessage(`null`),
			wantErr: services.ErrUnexpectedPayload,
		},
		{
			name:    "array of non objects",
			payload: json.RawMessage(`[1, 2]`),
			wantErr: services.ErrUnexpectedPayload,
		},
		{
			name:    "guide without id",
			payload: json.RawMessage(`[{"title":"Battery"}]`),
			wantErr: models.ErrInvalidRecord,
		},
		{
			name:    "guide without title",
			payload: json.RawMessage(`[{"guideid":1}]`),
			wantErr: models.ErrInvalidRecord,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			storageMock := mocks.NewMockStorage(ctrl)
			storageMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			fetcher := new(guideFetcherMock)
			fetcher.On("Fetch", mock.Anything, "iPhone12").Return(tc.payload, tc.fetchErr)

			persister := services.NewGuidePersister(fetcher, storageMock, guideURLPrefix)
			err := persister.Persist(context.Background(), "iPhone12")

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestGuidePersisterPersistEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	storageMock := mocks.NewMockStorage(ctrl)
	storageMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	fetcher := new(guideFetcherMock)
	fetcher.On("Fetch", mock.Anything, "iPhone12").Return(json.RawMessage(` [] `), nil)

	persister := services.NewGuidePersister(fetcher, storageMock, guideURLPrefix)
	assert.NoError(t, persister.Persist(context.Background(), "iPhone12"))
}
