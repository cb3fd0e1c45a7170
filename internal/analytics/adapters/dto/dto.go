// Package dto holds the JSON shapes shared by the REST endpoints and the push channel.
// Contact emails never leave the service.
package dto

import (
	"time"

	analytics "booking-analytics-service/internal/analytics/core/domain"
	bookings "booking-analytics-service/internal/bookings/core/domain"
	realtime "booking-analytics-service/internal/realtime/core/domain"
)

type BookingResponse struct {
	ID                        string `json:"_id"`
	AppointmentDate           string `json:"appointmentDate"`
	AppointmentTime           string `json:"appointmentTime"`
	Location                  string `json:"location"`
	GroupSize                 string `json:"groupSize"`
	VisaClass                 string `json:"visaClass"`
	OriginalAppointmentString string `json:"originalAppointmentString,omitempty"`
	CreatedAt                 string `json:"createdAt"`
	TelegramNotified          bool   `json:"telegramNotified"`
}

type StatsResponse struct {
	TotalUsers              int64     `json:"totalUsers"`
	ActiveToday             int64     `json:"activeToday"`
	AppointmentsThisWeek    int64     `json:"appointmentsThisWeek"`
	AppointmentsThisMonth   int64     `json:"appointmentsThisMonth"`
	NewUsersThisMonth       int64     `json:"newUsersThisMonth"`
	DownloadsToday          int64     `json:"downloadsToday"`
	DownloadsThisWeek       int64     `json:"downloadsThisWeek"`
	TotalAppointmentsBooked int64     `json:"totalAppointmentsBooked"`
	LastUpdated             time.Time `json:"lastUpdated"`
}

type CityStatResponse struct {
	City     string `json:"city"`
	Bookings int64  `json:"bookings"`
}

type GroupSizeResponse struct {
	Total  int64 `json:"total"`
	Single int64 `json:"single"`
	Group  int64 `json:"group"`
}

type GroupSplitResponse struct {
	Single int64 `json:"single"`
	Group  int64 `json:"group"`
}

type DailyStatResponse struct {
	Date               string             `json:"date"`
	Appointments       int64              `json:"appointments"`
	Users              int64              `json:"users"`
	Cities             int64              `json:"cities"`
	PopularVisaClasses []string           `json:"popularVisaClasses"`
	GroupSizes         GroupSplitResponse `json:"groupSizes"`
}

type HeatmapDayResponse struct {
	Date     string `json:"date"`
	Bookings int64  `json:"bookings"`
	IsHotDay bool   `json:"isHotDay"`
}

type TrendResponse struct {
	Year               int    `json:"year"`
	MonthNumber        int    `json:"monthNumber"`
	Month              string `json:"month"`
	Bookings           int64  `json:"bookings"`
	Users              int64  `json:"users"`
	SuccessRate        int    `json:"successRate"`
	CumulativeBookings int64  `json:"cumulativeBookings"`
}

type TopCityResponse struct {
	City             string           `json:"city"`
	TotalBookings    int64            `json:"totalBookings"`
	MonthlyBreakdown map[string]int64 `json:"monthlyBreakdown"`
}

type LocationResponse struct {
	City           string  `json:"city"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Bookings       int64   `json:"bookings"`
	Users          int64   `json:"users"`
	Growth         string  `json:"growth"`
	RecentBookings int64   `json:"recentBookings"`
}

type CityMonthResponse struct {
	Month     string `json:"month"`
	Year      int    `json:"year"`
	Bookings  int64  `json:"bookings"`
	MonthYear string `json:"monthYear"`
}

type UpcomingAppointmentResponse struct {
	AppointmentDate     string    `json:"appointmentDate"`
	AppointmentTime     string    `json:"appointmentTime"`
	AppointmentDateTime time.Time `json:"appointmentDateTime"`
	VisaClass           string    `json:"visaClass"`
	GroupSize           string    `json:"groupSize"`
	CreatedAt           string    `json:"createdAt"`
}

type CityUpcomingResponse struct {
	City          string                        `json:"city"`
	Appointments  []UpcomingAppointmentResponse `json:"appointments"`
	TotalUpcoming int64                         `json:"totalUpcoming"`
}

type AppointmentCountResponse struct {
	City            string `json:"city"`
	CreatedDate     string `json:"createdDate"`
	AppointmentDate string `json:"appointmentDate"`
	Count           int64  `json:"count"`
}

type InitialDataResponse struct {
	RecentBookings []BookingResponse  `json:"recentBookings"`
	Stats          *StatsResponse     `json:"stats"`
	CityStats      []CityStatResponse `json:"cityStats"`
}

type FailureResponse struct {
	Message string `json:"message"`
}

// ------------------------------------------------------------
// mappers
// ------------------------------------------------------------

func NewBookingResponse(b bookings.Booking) BookingResponse {
	return BookingResponse{
		ID:                        b.ID,
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

func NewBookingsResponse(bs []bookings.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

func NewStatsResponse(s *analytics.OverallStats) *StatsResponse {
	if s == nil {
		return nil
	}
	return &StatsResponse{
		TotalUsers:              s.TotalUsers,
		ActiveToday:             s.ActiveToday,
		AppointmentsThisWeek:    s.AppointmentsThisWeek,
		AppointmentsThisMonth:   s.AppointmentsThisMonth,
		NewUsersThisMonth:       s.NewUsersThisMonth,
		DownloadsToday:          s.DownloadsToday,
		DownloadsThisWeek:       s.DownloadsThisWeek,
		TotalAppointmentsBooked: s.TotalAppointmentsBooked,
		LastUpdated:             s.LastUpdated,
	}
}

func NewCityStatsResponse(cs []analytics.CityCount) []CityStatResponse {
	out := make([]CityStatResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, CityStatResponse{City: c.City, Bookings: c.Bookings})
	}
	return out
}

func NewGroupSizeResponse(g analytics.GroupSizeStats) GroupSizeResponse {
	return GroupSizeResponse{Total: g.Total, Single: g.Single, Group: g.Group}
}

func NewDailyStatsResponse(ds []analytics.DailyStat) []DailyStatResponse {
	out := make([]DailyStatResponse, 0, len(ds))
	for _, d := range ds {
		classes := d.PopularVisaClasses
		if classes == nil {
			classes = []string{}
		}
		out = append(out, DailyStatResponse{
			Date:               d.Date,
			Appointments:       d.Appointments,
			Users:              d.Users,
			Cities:             d.Cities,
			PopularVisaClasses: classes,
			GroupSizes:         GroupSplitResponse{Single: d.GroupSizes.Single, Group: d.GroupSizes.Group},
		})
	}
	return out
}

func NewHeatmapResponse(days []analytics.HeatmapDay) []HeatmapDayResponse {
	out := make([]HeatmapDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, HeatmapDayResponse{Date: d.Date, Bookings: d.Bookings, IsHotDay: d.IsHotDay})
	}
	return out
}

func NewTrendsResponse(ts []analytics.MonthlyTrend) []TrendResponse {
	out := make([]TrendResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, TrendResponse{
			Year:               t.Year,
			MonthNumber:        t.Month,
			Month:              t.Label,
			Bookings:           t.Bookings,
			Users:              t.Users,
			SuccessRate:        t.SuccessRate,
			CumulativeBookings: t.CumulativeBookings,
		})
	}
	return out
}

func NewTopCitiesResponse(cs []analytics.CityPerformance) []TopCityResponse {
	out := make([]TopCityResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, TopCityResponse{City: c.City, TotalBookings: c.TotalBookings, MonthlyBreakdown: c.MonthlyBreakdown})
	}
	return out
}

func NewLocationsResponse(ls []analytics.LocationPoint) []LocationResponse {
	out := make([]LocationResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, LocationResponse{
			City:           l.City,
			Lat:            l.Lat,
			Lng:            l.Lng,
			Bookings:       l.Bookings,
			Users:          l.Users,
			Growth:         l.Growth,
			RecentBookings: l.RecentBookings,
		})
	}
	return out
}

func NewCityMonthsResponse(ms []analytics.CityMonth) []CityMonthResponse {
	out := make([]CityMonthResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, CityMonthResponse{Month: m.Month, Year: m.Year, Bookings: m.Bookings, MonthYear: m.MonthYear})
	}
	return out
}

func NewUpcomingResponse(cs []analytics.CityUpcoming) []CityUpcomingResponse {
	out := make([]CityUpcomingResponse, 0, len(cs))
	for _, c := range cs {
		appts := make([]UpcomingAppointmentResponse, 0, len(c.Appointments))
		for _, a := range c.Appointments {
			appts = append(appts, UpcomingAppointmentResponse{
				AppointmentDate:     a.AppointmentDate,
				AppointmentTime:     a.AppointmentTime,
				AppointmentDateTime: a.AppointmentDateTime,
				VisaClass:           a.VisaClass,
				GroupSize:           a.GroupSize,
				CreatedAt:           a.CreatedAt,
			})
		}
		out = append(out, CityUpcomingResponse{City: c.City, Appointments: appts, TotalUpcoming: c.TotalUpcoming})
	}
	return out
}

// Present maps a push payload to its wire shape. Unknown values pass through.
func Present(payload any) any {
	switch v := payload.(type) {
	case bookings.Booking:
		return NewBookingResponse(v)
	case *bookings.Booking:
		return NewBookingResponse(*v)
	case []bookings.Booking:
		return NewBookingsResponse(v)
	case *analytics.OverallStats:
		return NewStatsResponse(v)
	case []analytics.CityCount:
		return NewCityStatsResponse(v)
	case realtime.Snapshot:
		return InitialDataResponse{
			RecentBookings: NewBookingsResponse(v.RecentBookings),
			Stats:          NewStatsResponse(v.Stats),
			CityStats:      NewCityStatsResponse(v.CityStats),
		}
	case realtime.Failure:
		return FailureResponse{Message: v.Message}
	default:
		return payload
	}
}
