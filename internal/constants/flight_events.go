package constants

// Flight event actions, also used as the action column of flight_logs
const (
	FlightEventCreated       = "flight_created"
	FlightEventUpdated       = "flight_updated"
	FlightEventStatusChanged = "flight_status_changed"
	FlightEventDelayed       = "flight_delayed"
	FlightEventCancelled     = "flight_cancelled"
	FlightEventDeleted       = "flight_deleted"
	FlightEventTwinSyncFail  = "twin_sync_failed"
)

// Stream and subject names for the event sinks
const (
	FlightEventStream      = "flight:events"
	FlightEventGroup       = "flight-log-workers"
	FlightEventSubjectRoot = "flights.events"
	FlightEventNATSStream  = "FLIGHT_EVENTS"
)
