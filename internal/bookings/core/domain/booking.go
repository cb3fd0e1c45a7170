package domain

const (
	GroupSizeSingle = "single"
	GroupSizeGroup  = "group"
)

// Booking is one completed appointment booking as written by the upstream producer.
// Dates and times are kept in their textual source form; see NormalizeCreatedAt and
// ParseAppointment for the parsed views.
type Booking struct {
	ID                        string
	Email                     string
	AppointmentDate           string // DD/MM/YYYY
	AppointmentTime           string // HH:MM, hour may be "24"
	Location                  string
	GroupSize                 string // "single" | "group"
	VisaClass                 string
	OriginalAppointmentString string
	CreatedAt                 string
	TelegramNotified          bool
}

// IsSingle reports whether the booking counts toward the single side of a group-size split.
// Anything that is not "single" counts as a group booking.
func (b Booking) IsSingle() bool {
	return b.GroupSize == GroupSizeSingle
}
