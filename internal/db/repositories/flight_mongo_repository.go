package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/models/dtos"
	"airport-ops/tarmac/internal/models/gorm"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const flightsCollection = "flights"

// FlightMongoRepository stores flights as documents, one per twin
type FlightMongoRepository struct {
	collection *mongo.Collection
}

// NewFlightMongoRepository creates the repository and ensures its indexes
func NewFlightMongoRepository(ctx context.Context, db *mongo.Database) (*FlightMongoRepository, error) {
	collection := db.Collection(flightsCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "departureAirportId", Value: 1}, {Key: "scheduledDeparture", Value: 1}}},
		{Keys: bson.D{{Key: "arrivalAirportId", Value: 1}, {Key: "scheduledArrival", Value: 1}}},
		{Keys: bson.D{{Key: "flightNumber", Value: 1}, {Key: "scheduledDeparture", Value: 1}}},
		{Keys: bson.D{{Key: "twinId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create flight indexes: %w", err)
	}

	return &FlightMongoRepository{collection: collection}, nil
}

func (r *FlightMongoRepository) findOne(ctx context.Context, filter bson.M) (*gorm.Flight, error) {
	var flight gorm.Flight
	err := r.collection.FindOne(ctx, filter).Decode(&flight)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &flight, nil
}

func (r *FlightMongoRepository) FindByID(ctx context.Context, id string) (*gorm.Flight, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *FlightMongoRepository) FindByTwinID(ctx context.Context, twinID string) (*gorm.Flight, error) {
	return r.findOne(ctx, bson.M{"twinId": twinID})
}

func (r *FlightMongoRepository) FindByNumberInRange(ctx context.Context, number string, from, to time.Time) (*gorm.Flight, error) {
	return r.findOne(ctx, bson.M{
		"flightNumber":       number,
		"scheduledDeparture": bson.M{"$gte": from, "$lt": to},
	})
}

// CreatePair inserts both twins. Without a replica set there is no
// transaction, so a failed second insert removes the first.
func (r *FlightMongoRepository) CreatePair(ctx context.Context, departure, arrival *gorm.Flight) error {
	now := time.Now().UTC()
	for _, f := range []*gorm.Flight{departure, arrival} {
		if err := f.Validate(); err != nil {
			return err
		}
		f.CreatedAt, f.UpdatedAt = now, now
	}

	if _, err := r.collection.InsertOne(ctx, departure); err != nil {
		return fmt.Errorf("failed to insert departure: %w", err)
	}
	if _, err := r.collection.InsertOne(ctx, arrival); err != nil {
		if _, delErr := r.collection.DeleteOne(ctx, bson.M{"_id": departure.ID}); delErr != nil {
			logging.Error("Failed to remove half-created flight pair",
				"flight_id", departure.ID,
				"error", delErr.Error(),
			)
		}
		return fmt.Errorf("failed to insert arrival: %w", err)
	}
	return nil
}

// Save validates and replaces the whole document
func (r *FlightMongoRepository) Save(ctx context.Context, flight *gorm.Flight) error {
	if err := flight.Validate(); err != nil {
		return err
	}
	flight.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": flight.ID}, flight)
	if err != nil {
		return fmt.Errorf("failed to save flight %s: %w", flight.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrFlightMissing
	}
	return nil
}

// Patch $sets only the patched fields, without validation
func (r *FlightMongoRepository) Patch(ctx context.Context, id string, patch gorm.FlightPatch) (bool, error) {
	values := patch.Values()
	if len(values) == 0 {
		return true, nil
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for field, v := range values {
		set[string(field)] = v
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to patch flight %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *FlightMongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// List serves the read side when flights live in MongoDB
func (r *FlightMongoRepository) List(ctx context.Context, filter dtos.FlightFilter) ([]gorm.Flight, int, error) {
	filter.Normalize()
	query := bson.M{"isArchived": false}
	if filter.AirportID != "" {
		query["$or"] = bson.A{
			bson.M{"departureAirportId": filter.AirportID},
			bson.M{"arrivalAirportId": filter.AirportID},
		}
	}
	if filter.FlightType != "" {
		query["flightType"] = filter.FlightType
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Date != nil {
		start, end := dayRange(*filter.Date)
		query["scheduledDeparture"] = bson.M{"$gte": start, "$lt": end}
	}
	if filter.Search != "" {
		query["flightNumber"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count flights: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduledDeparture", Value: 1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flights: %w", err)
	}
	defer cursor.Close(ctx)

	flights := []gorm.Flight{}
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, 0, fmt.Errorf("failed to decode flights: %w", err)
	}
	return flights, int(total), nil
}
