package domain

import (
	analytics "booking-analytics-service/internal/analytics/core/domain"
	bookings "booking-analytics-service/internal/bookings/core/domain"
)

// Server -> viewer events.
const (
	EventInitialData = "data:initial"
	EventNewBooking  = "booking:new"
	EventStats       = "data:stats"
	EventCityStats   = "data:city-stats"
	EventError       = "error"
)

// Viewer -> server requests.
const (
	RequestInitialData = "request:initial-data"
	RequestStats       = "request:stats"
	RequestCityStats   = "request:city-stats"
)

// Snapshot is sent once per request:initial-data.
type Snapshot struct {
	RecentBookings []bookings.Booking
	Stats          *analytics.OverallStats
	CityStats      []analytics.CityCount
}

// Failure is the payload of an error event.
type Failure struct {
	Message string
}
