package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Appointment input layouts, matching HTML date and time inputs.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrInvalidAppointment is returned for a date or time that does not parse.
var ErrInvalidAppointment = errors.New("invalid appointment")

// Appointment holds the meeting details rendered into a client message.
// Fields are carried as display strings; callers check presence only.
type Appointment struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// ParseAppointment checks date and clock against DateLayout and TimeLayout.
// An empty date defaults to the day of now and an empty clock to its
// hour and minute, like a picker left untouched.
func ParseAppointment(date, clock, location string, now time.Time) (Appointment, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" {
		date = now.Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return Appointment{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidAppointment, date)
	}
	if clock == "" {
		clock = now.Format(TimeLayout)
	} else if _, err := time.Parse(TimeLayout, clock); err != nil {
		return Appointment{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidAppointment, clock)
	}

	return Appointment{Date: date, Time: clock, Location: strings.TrimSpace(location)}, nil
}

// OutboundMessage is a single message handed to a Transport.
type OutboundMessage struct {
	ID   string // correlation ID for logs, not sent to the provider
	From string // channel identifier of the sender (may be empty for bot transports)
	To   string // channel identifier of the recipient
	Body string
}

// Receipt is the transport's acknowledgement of an accepted message.
type Receipt struct {
	Transport string `json:"transport"`
	MessageID string `json:"message_id,omitempty"`
	Status    string `json:"status,omitempty"`
}
