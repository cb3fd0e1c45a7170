package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/bookings/core/ports"
)

var (
	ErrInvalidBooking = errors.New("invalid booking")
	ErrFutureTime     = errors.New("creation time cannot be in the future")
)

// clockSkew tolerates producers whose clocks run slightly ahead.
const clockSkew = time.Minute

type RecordBookingUseCase struct {
	repo ports.BookingWriterPort
	now  func() time.Time
}

func NewRecordBookingUseCase(repo ports.BookingWriterPort) *RecordBookingUseCase {
	return &RecordBookingUseCase{repo: repo, now: time.Now}
}

type RecordBookingInput struct {
	Email                     string
	AppointmentDate           string
	AppointmentTime           string
	Location                  string
	GroupSize                 string
	VisaClass                 string
	OriginalAppointmentString string
	CreatedAt                 string // empty means now
	TelegramNotified          bool
}

// Execute validates the input and inserts one booking. The creation timestamp is stored
// as supplied; normalization happens on read.
func (uc *RecordBookingUseCase) Execute(ctx context.Context, in RecordBookingInput) (*domain.Booking, error) {
	if err := uc.validateInput(in); err != nil {
		return nil, err
	}

	createdAt := in.CreatedAt
	if createdAt == "" {
		createdAt = domain.FormatTimestamp(uc.now())
	}

	b := &domain.Booking{
		Email:                     strings.TrimSpace(in.Email),
		AppointmentDate:           in.AppointmentDate,
		AppointmentTime:           in.AppointmentTime,
		Location:                  strings.TrimSpace(in.Location),
		GroupSize:                 in.GroupSize,
		VisaClass:                 in.VisaClass,
		OriginalAppointmentString: in.OriginalAppointmentString,
		CreatedAt:                 createdAt,
		TelegramNotified:          in.TelegramNotified,
	}

	id, err := uc.repo.InsertBooking(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id

	return b, nil
}

type BulkRecordInput struct {
	Bookings []RecordBookingInput
}

type BulkRecordResult struct {
	Created int
}

// BulkRecord validates every input before inserting any of them.
func (uc *RecordBookingUseCase) BulkRecord(ctx context.Context, in BulkRecordInput) (BulkRecordResult, error) {
	var res BulkRecordResult

	for i, b := range in.Bookings {
		if err := uc.validateInput(b); err != nil {
			return res, fmt.Errorf("booking %d: %w", i, err)
		}
	}

	for _, b := range in.Bookings {
		if _, err := uc.Execute(ctx, b); err != nil {
			return res, err
		}
		res.Created++
	}

	return res, nil
}

func (uc *RecordBookingUseCase) validateInput(in RecordBookingInput) error {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Location) == "" {
		return ErrInvalidBooking
	}

	if in.GroupSize != domain.GroupSizeSingle && in.GroupSize != domain.GroupSizeGroup {
		return ErrInvalidBooking
	}

	if _, err := domain.ParseAppointment(in.AppointmentDate, in.AppointmentTime); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}

	if in.CreatedAt != "" {
		created, err := domain.NormalizeCreatedAt(in.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBooking, err)
		}
		if created.After(uc.now().Add(clockSkew)) {
			return ErrFutureTime
		}
	}

	return nil
}
