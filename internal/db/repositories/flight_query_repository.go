package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"airport-ops/tarmac/internal/models/dtos"
	"airport-ops/tarmac/internal/models/gorm"

	"github.com/jmoiron/sqlx"
)

const flightColumns = `id, flight_number, airline_id, aircraft_type, departure_airport_id, arrival_airport_id,
	scheduled_departure, scheduled_arrival, actual_departure, actual_arrival, status, flight_type,
	twin_id, delay_minutes, cancellation_reason, remarks, created_by, created_at_airport,
	is_archived, created_at, updated_at`

// FlightQueryRepository serves the read side of the flights table over sqlx
type FlightQueryRepository struct {
	db *sqlx.DB
}

func NewFlightQueryRepository(db *sqlx.DB) *FlightQueryRepository {
	return &FlightQueryRepository{db: db}
}

// List returns one page of non-archived flights matching the filter, ordered
// by scheduled departure, plus the total number of matches.
func (r *FlightQueryRepository) List(ctx context.Context, filter dtos.FlightFilter) ([]gorm.Flight, int, error) {
	filter.Normalize()
	where, args := buildFlightWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM flights WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count flights: %w", err)
	}

	flights := []gorm.Flight{}
	if total == 0 {
		return flights, 0, nil
	}

	n := len(args)
	listQuery := fmt.Sprintf("SELECT %s FROM flights WHERE %s ORDER BY scheduled_departure ASC LIMIT $%d OFFSET $%d",
		flightColumns, where, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset())

	if err := r.db.SelectContext(ctx, &flights, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list flights: %w", err)
	}
	return flights, total, nil
}

func buildFlightWhere(filter dtos.FlightFilter) (string, []interface{}) {
	clauses := []string{"is_archived = false"}
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AirportID != "" {
		p := next(filter.AirportID)
		clauses = append(clauses, fmt.Sprintf("(departure_airport_id = %s OR arrival_airport_id = %s)", p, p))
	}
	if filter.FlightType != "" {
		clauses = append(clauses, "flight_type = "+next(filter.FlightType))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = "+next(filter.Status))
	}
	if filter.Date != nil {
		start, end := dayRange(*filter.Date)
		clauses = append(clauses, "scheduled_departure >= "+next(start))
		clauses = append(clauses, "scheduled_departure < "+next(end))
	}
	if filter.Search != "" {
		clauses = append(clauses, "flight_number ILIKE "+next("%"+escapeLike(filter.Search)+"%"))
	}

	return strings.Join(clauses, " AND "), args
}

// dayRange returns the UTC bounds of t's calendar day in t's own location
func dayRange(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
