package mongodb

import (
	"fmt"
	"strconv"
	"time"

	"booking-analytics-service/internal/bookings/core/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingDocument is a stored booking. CreatedAt holds either a timestamp string or a
// native date, depending on which writer produced the document.
type BookingDocument struct {
	ID                        any    `bson:"_id,omitempty"`
	Email                     string `bson:"email"`
	AppointmentDate           string `bson:"appointmentDate"`
	AppointmentTime           string `bson:"appointmentTime"`
	Location                  string `bson:"location"`
	GroupSize                 string `bson:"groupSize"`
	VisaClass                 string `bson:"visaClass"`
	OriginalAppointmentString string `bson:"originalAppointmentString,omitempty"`
	CreatedAt                 any    `bson:"createdAt"`
	TelegramNotified          bool   `bson:"telegramNotified"`
}

func NewBookingDocument(b *domain.Booking) BookingDocument {
	return BookingDocument{
		Email:                     b.Email,
		AppointmentDate:           b.AppointmentDate,
		AppointmentTime:           b.AppointmentTime,
		Location:                  b.Location,
		GroupSize:                 b.GroupSize,
		VisaClass:                 b.VisaClass,
		OriginalAppointmentString: b.OriginalAppointmentString,
		CreatedAt:                 b.CreatedAt,
		TelegramNotified:          b.TelegramNotified,
	}
}

func (d BookingDocument) ToDomain() domain.Booking {
	return domain.Booking{
		ID:                        IDString(d.ID),
		Email:                     d.Email,
		AppointmentDate:           d.AppointmentDate,
		AppointmentTime:           d.AppointmentTime,
		Location:                  d.Location,
		GroupSize:                 d.GroupSize,
		VisaClass:                 d.VisaClass,
		OriginalAppointmentString: d.OriginalAppointmentString,
		CreatedAt:                 TimestampString(d.CreatedAt),
		TelegramNotified:          d.TelegramNotified,
	}
}

// IDString renders a document id as text.
func IDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// TimestampString renders a stored timestamp as text. Strings are returned verbatim.
func TimestampString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case primitive.DateTime:
		return domain.FormatTimestamp(t.Time())
	case time.Time:
		return domain.FormatTimestamp(t)
	default:
		return fmt.Sprint(t)
	}
}

type CityLocationDocument struct {
	City        string    `bson:"city"`
	Country     string    `bson:"country"`
	Lat         float64   `bson:"lat"`
	Lng         float64   `bson:"lng"`
	Timezone    string    `bson:"timezone"`
	Region      string    `bson:"region"`
	IsActive    bool      `bson:"isActive"`
	LastUpdated time.Time `bson:"lastUpdated"`
}

func NewCityLocationDocument(l domain.CityLocation) CityLocationDocument {
	return CityLocationDocument(l)
}

func (d CityLocationDocument) ToDomain() domain.CityLocation {
	return domain.CityLocation(d)
}

// DashboardDocument is written by another process. Counters are usually strings but
// numbers are accepted.
type DashboardDocument struct {
	Key               string `bson:"Key"`
	TotalUsers        any    `bson:"TotalUsers"`
	NewUsersThisMonth any    `bson:"NewUsersThisMonth"`
	DownloadsToday    any    `bson:"DownloadsToday"`
	DownloadsThisWeek any    `bson:"DownloadsThisWeek"`
	BaseBookedCounter any    `bson:"BaseBookedCounter"`
}

func (d DashboardDocument) ToDomain() domain.DashboardCounters {
	return domain.DashboardCounters{
		Key:               d.Key,
		TotalUsers:        counterString(d.TotalUsers),
		NewUsersThisMonth: counterString(d.NewUsersThisMonth),
		DownloadsToday:    counterString(d.DownloadsToday),
		DownloadsThisWeek: counterString(d.DownloadsThisWeek),
		BaseBookedCounter: counterString(d.BaseBookedCounter),
	}
}

func counterString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatInt(int64(n), 10)
	default:
		return fmt.Sprint(n)
	}
}
