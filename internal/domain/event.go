package domain

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/shopspring/decimal"
)

// EventAttributes описывает билет на мероприятие.
type EventAttributes struct {
	EventDate      time.Time
	Venue          string
	TotalCapacity  int64
	SeatsBooked    int64
	MinTicketPrice decimal.Decimal
	MaxTicketPrice decimal.Decimal
}

func (EventAttributes) Category() Category { return CategoryEvent }
func (EventAttributes) isProductDetail()   {}

// AvailableSeats = вместимость − забронировано.
func (a EventAttributes) AvailableSeats() int64 {
	return a.TotalCapacity - a.SeatsBooked
}

func (a EventAttributes) Validate() error {
	if a.TotalCapacity <= 0 {
		return e.Wrap(fmt.Sprintf("total capacity %d", a.TotalCapacity), e.ErrInvalidAttributeRange)
	}
	if a.SeatsBooked < 0 || a.SeatsBooked > a.TotalCapacity {
		return e.Wrap(fmt.Sprintf("seats booked %d of %d", a.SeatsBooked, a.TotalCapacity), e.ErrInvalidAttributeRange)
	}
	if a.MinTicketPrice.IsNegative() {
		return e.Wrap("negative min ticket price", e.ErrInvalidAttributeRange)
	}
	if a.MinTicketPrice.GreaterThan(a.MaxTicketPrice) {
		return e.Wrap(fmt.Sprintf("min ticket price %s > max %s", a.MinTicketPrice, a.MaxTicketPrice), e.ErrInvalidAttributeRange)
	}
	return nil
}
