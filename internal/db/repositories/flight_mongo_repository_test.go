package repositories

import (
	"context"
	"errors"
	"testing"

	"airport-ops/tarmac/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMongoRepo(mt *mtest.T) *FlightMongoRepository {
	mt.AddMockResponses(mtest.CreateSuccessResponse()) // createIndexes
	repo, err := NewFlightMongoRepository(context.Background(), mt.DB)
	require.NoError(mt, err)
	mt.ClearEvents()
	return repo
}

func TestFlightMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create pair removes the departure when the arrival insert fails", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		dep, arr := testPair()

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		err := repo.CreatePair(ctx, dep, arr)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to insert arrival")

		started := mt.GetAllStartedEvents()
		require.Len(mt, started, 3)
		assert.Equal(mt, "insert", started[0].CommandName)
		assert.Equal(mt, "insert", started[1].CommandName)
		assert.Equal(mt, "delete", started[2].CommandName)
		assert.Equal(mt, dep.ID, started[2].Command.Lookup("deletes", "0", "q", "_id").StringValue())
	})

	mt.Run("create pair rejects an invalid flight before writing", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		dep, arr := testPair()
		arr.ArrivalAirportID = arr.DepartureAirportID

		var inv *gorm.InvariantError
		require.True(mt, errors.As(repo.CreatePair(ctx, dep, arr), &inv))
		assert.Empty(mt, mt.GetAllStartedEvents())
	})

	mt.Run("patch sets only the patched fields", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		remarks := "gate 4"

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		found, err := repo.Patch(ctx, "flt-1", gorm.FlightPatch{Remarks: &remarks})
		require.NoError(mt, err)
		assert.True(mt, found)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		set := evt.Command.Lookup("updates", "0", "u", "$set").Document()
		assert.Equal(mt, "gate 4", set.Lookup("remarks").StringValue())
		_, err = set.LookupErr("updatedAt")
		assert.NoError(mt, err)
		_, err = set.LookupErr("status")
		assert.Error(mt, err, "unpatched fields are left alone")
	})

	mt.Run("patch reports a missing flight", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		remarks := "gate 4"

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		found, err := repo.Patch(ctx, "gone", gorm.FlightPatch{Remarks: &remarks})
		require.NoError(mt, err)
		assert.False(mt, found)
	})

	mt.Run("save of a missing flight", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		dep, _ := testPair()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		assert.ErrorIs(mt, repo.Save(ctx, dep), ErrFlightMissing)
	})

	mt.Run("find by id returns nil when absent", func(mt *mtest.T) {
		repo := newMongoRepo(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.flights", mtest.FirstBatch))
		flight, err := repo.FindByID(ctx, "missing")
		require.NoError(mt, err)
		assert.Nil(mt, flight)
	})
}
