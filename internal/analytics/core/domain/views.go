package domain

import "time"

// HotDayThreshold is the daily booking count at which a day is rendered as hot.
const HotDayThreshold = 50

type CityCount struct {
	City     string
	Bookings int64
}

type GroupSplit struct {
	Single int64
	Group  int64
}

type GroupSizeStats struct {
	Total  int64
	Single int64
	Group  int64
}

type DailyStat struct {
	Date               string // YYYY-MM-DD
	Appointments       int64
	Users              int64
	Cities             int64
	PopularVisaClasses []string // at most 3, order unspecified
	GroupSizes         GroupSplit
}

type DayCount struct {
	Date     string
	Bookings int64
}

type HeatmapDay struct {
	Date     string
	Bookings int64
	IsHotDay bool
}

func IsHotDay(bookings int64) bool {
	return bookings >= HotDayThreshold
}

// MonthCount is a (year, month) bucket produced by the store.
type MonthCount struct {
	Year     int
	Month    int
	Bookings int64
	Users    int64
}

type MonthlyTrend struct {
	Year               int
	Month              int
	Label              string
	Bookings           int64
	Users              int64
	SuccessRate        int
	CumulativeBookings int64
}

// CityMonthlyTotals is the store-side regrouping of (city, year, month) buckets.
type CityMonthlyTotals struct {
	City          string
	TotalBookings int64
	Months        []MonthCount
}

type CityPerformance struct {
	City             string
	TotalBookings    int64
	MonthlyBreakdown map[string]int64 // "YYYY-MM" -> bookings
}

type CityActivity struct {
	City                   string
	TotalBookings          int64
	RecentBookings         int64
	PreviousPeriodBookings int64
	Users                  int64
}

type LocationPoint struct {
	City           string
	Lat            float64
	Lng            float64
	Bookings       int64
	Users          int64
	Growth         string
	RecentBookings int64
}

type CityMonth struct {
	Month     string
	Year      int
	Bookings  int64
	MonthYear string
}

type UpcomingAppointment struct {
	AppointmentDate     string
	AppointmentTime     string
	AppointmentDateTime time.Time
	VisaClass           string
	GroupSize           string
	CreatedAt           string
}

type CityUpcoming struct {
	City          string
	Appointments  []UpcomingAppointment
	TotalUpcoming int64
}

// OverallStats is the statistics object pushed as data:stats.
type OverallStats struct {
	TotalUsers              int64
	ActiveToday             int64
	AppointmentsThisWeek    int64
	AppointmentsThisMonth   int64
	NewUsersThisMonth       int64
	DownloadsToday          int64
	DownloadsThisWeek       int64
	TotalAppointmentsBooked int64
	LastUpdated             time.Time
}
