package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enumerates the domain events the accounting engine raises.
type Type string

const (
	TypeLatenessDetected Type = "lateness_detected"
	TypeLowBalance       Type = "low_balance"
	TypeLeaveRequested   Type = "leave_requested"
	TypeLeaveDecided     Type = "leave_decided"
)

// Event is raised by a domain operation after it commits. Consumers turn
// events into notification rows; the raising operation never waits for
// that to happen.
type Event struct {
	Type       Type
	EmployeeID string // the employee the event is about
	OccurredAt time.Time

	// Lateness / balance payload
	LateMinutes int
	Deducted    decimal.Decimal
	NewBalance  decimal.Decimal

	// Leave request payload
	RequestID string
	StartDate time.Time
	EndDate   time.Time
	Days      decimal.Decimal
	Approved  bool
}

// Publisher accepts events without blocking the caller. Publishing is
// fire-and-forget: failures downstream never reach the domain operation.
type Publisher interface {
	Publish(e Event)
}

// NopPublisher discards events. Useful in tests and batch tooling.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
