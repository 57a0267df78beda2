package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// Service pushes lifecycle events to connected websocket clients
type Service interface {
	SendMessage(message string) error
	Publish(event BookingEvent) error
}

type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId"`
	PropertyID string    `json:"propertyId"`
	RoomID     string    `json:"roomId"`
	Status     int       `json:"status"`
	StatusText string    `json:"statusText"`
	Amount     int64     `json:"amount,omitempty"`
	At         time.Time `json:"at"`
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

func (s *MelodyService) Publish(event BookingEvent) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.m.Broadcast(payload)
}

// Nop drops every event; used when no websocket hub is configured
type Nop struct{}

func (Nop) SendMessage(string) error { return nil }
func (Nop) Publish(BookingEvent) error { return nil }

type MessageBuilder struct {
	event BookingEvent
}

func NewMessageBuilder(eventType string) *MessageBuilder {
	return &MessageBuilder{event: BookingEvent{Type: eventType}}
}

func (b *MessageBuilder) Booking(bookingID, propertyID, roomID string) *MessageBuilder {
	b.event.BookingID = bookingID
	b.event.PropertyID = propertyID
	b.event.RoomID = roomID
	return b
}

func (b *MessageBuilder) Status(code int, label string) *MessageBuilder {
	b.event.Status = code
	b.event.StatusText = label
	return b
}

func (b *MessageBuilder) Amount(amount int64) *MessageBuilder {
	b.event.Amount = amount
	return b
}

func (b *MessageBuilder) At(t time.Time) *MessageBuilder {
	b.event.At = t
	return b
}

func (b *MessageBuilder) Build() BookingEvent {
	return b.event
}
