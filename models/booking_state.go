package models

import (
	"fmt"

	apperrors "accommodation/errors"
)

type BookingEvent string

const (
	EventPay           BookingEvent = "pay"
	EventCancel        BookingEvent = "cancel"
	EventRequestRefund BookingEvent = "request_refund"
	EventPayoutRefund  BookingEvent = "payout_refund"
	EventCheckIn       BookingEvent = "check_in"
	EventReprice       BookingEvent = "reprice"
)

func (e BookingEvent) verb() string {
	switch e {
	case EventPay:
		return "pay"
	case EventCancel:
		return "cancel"
	case EventRequestRefund:
		return "request a refund for"
	case EventPayoutRefund:
		return "pay out the refund of"
	case EventCheckIn:
		return "check in"
	case EventReprice:
		return "update"
	default:
		return string(e)
	}
}

// Transition is the outcome of one applied event.
type Transition struct {
	Event       BookingEvent
	From        BookingStatus
	To          BookingStatus
	IncomeDelta int64
	ReleaseRoom bool
}

// effect adjusts the money fields of the booking and returns the signed income delta.
// credited is the net amount the ledger already holds for the booking.
type effect func(b *Booking, credited int64) (int64, error)

type transitionKey struct {
	from  BookingStatus
	event BookingEvent
}

type transitionRule struct {
	to          BookingStatus
	releaseRoom bool
	effect      effect
}

var bookingTransitions = map[transitionKey]transitionRule{
	{BookingStatusWaiting, EventPay}:                  {to: BookingStatusConfirmed, effect: payInFull},
	{BookingStatusConfirmed, EventPay}:                {to: BookingStatusConfirmed, effect: settleExtraPay},
	{BookingStatusWaiting, EventCancel}:               {to: BookingStatusCancelled, releaseRoom: true, effect: reverseCredit},
	{BookingStatusConfirmed, EventCancel}:             {to: BookingStatusCancelled, releaseRoom: true, effect: reverseCredit},
	{BookingStatusRefundRequested, EventCancel}:       {to: BookingStatusCancelled, releaseRoom: true, effect: reverseCredit},
	{BookingStatusConfirmed, EventRequestRefund}:      {to: BookingStatusRefundRequested, effect: requireRefundOwed},
	{BookingStatusRefundRequested, EventPayoutRefund}: {to: BookingStatusDone, releaseRoom: true, effect: payoutRefund},
	{BookingStatusConfirmed, EventCheckIn}:            {to: BookingStatusDone, releaseRoom: true, effect: completeStay},
	{BookingStatusWaiting, EventReprice}:              {to: BookingStatusWaiting, effect: noIncome},
	{BookingStatusConfirmed, EventReprice}:            {to: BookingStatusConfirmed, effect: noIncome},
}

func illegalTransition(b *Booking, ev BookingEvent, reason string) error {
	msg := fmt.Sprintf("cannot %s booking %s in state %s", ev.verb(), b.ID, b.Status.Label())
	if reason != "" {
		msg += ": " + reason
	}
	return apperrors.NewAppError(apperrors.ErrCodeValidation, msg, apperrors.ErrIllegalTransition)
}

func payInFull(b *Booking, _ int64) (int64, error) {
	return b.TotalPrice, nil
}

func settleExtraPay(b *Booking, _ int64) (int64, error) {
	if b.ExtraPay <= 0 {
		return 0, illegalTransition(b, EventPay, apperrors.ErrNoExtraPay.Error())
	}
	amount := b.ExtraPay
	b.ExtraPay = 0
	return amount, nil
}

func reverseCredit(_ *Booking, credited int64) (int64, error) {
	return -credited, nil
}

func requireRefundOwed(b *Booking, _ int64) (int64, error) {
	if b.Refund <= 0 {
		return 0, illegalTransition(b, EventRequestRefund, apperrors.ErrNoRefundOwed.Error())
	}
	return 0, nil
}

func payoutRefund(b *Booking, _ int64) (int64, error) {
	if b.Refund <= 0 {
		return 0, illegalTransition(b, EventPayoutRefund, apperrors.ErrNoRefundOwed.Error())
	}
	return -b.Refund, nil
}

func completeStay(b *Booking, _ int64) (int64, error) {
	if b.ExtraPay > 0 {
		return 0, illegalTransition(b, EventCheckIn, apperrors.ErrNoExtraPay.Error())
	}
	return b.TotalPrice - b.Refund, nil
}

func noIncome(*Booking, int64) (int64, error) {
	return 0, nil
}

// Reject is the validation error for ev in the current state.
func (b *Booking) Reject(ev BookingEvent) error {
	return illegalTransition(b, ev, "")
}

// CanApply reports whether the table has a rule for ev from the current state.
// Guards inside the rule may still reject it.
func (b *Booking) CanApply(ev BookingEvent) bool {
	_, ok := bookingTransitions[transitionKey{b.Status, ev}]
	return ok
}

// Apply runs ev against the booking. On error the booking is left untouched.
func (b *Booking) Apply(ev BookingEvent, credited int64) (Transition, error) {
	if ev == EventReprice {
		return Transition{}, fmt.Errorf("reprice must go through Booking.Reprice")
	}
	rule, ok := bookingTransitions[transitionKey{b.Status, ev}]
	if !ok {
		return Transition{}, illegalTransition(b, ev, "")
	}
	delta, err := rule.effect(b, credited)
	if err != nil {
		return Transition{}, err
	}
	t := Transition{
		Event:       ev,
		From:        b.Status,
		To:          rule.to,
		IncomeDelta: delta,
		ReleaseRoom: rule.releaseRoom,
	}
	b.Status = rule.to
	return t, nil
}

// Reprice sets a new total price. While Confirmed, an increase becomes extra pay and a
// decrease first cancels unsettled extra pay, then becomes a refund that moves the
// booking to RefundRequested. No income moves here.
func (b *Booking) Reprice(newTotal int64) (Transition, error) {
	if !b.CanApply(EventReprice) {
		return Transition{}, illegalTransition(b, EventReprice, "")
	}
	t := Transition{Event: EventReprice, From: b.Status, To: b.Status}
	delta := newTotal - b.TotalPrice
	b.TotalPrice = newTotal
	if b.Status != BookingStatusConfirmed || delta == 0 {
		return t, nil
	}
	if delta > 0 {
		b.ExtraPay += delta
		return t, nil
	}

	owed := -delta
	if b.ExtraPay >= owed {
		b.ExtraPay -= owed
		return t, nil
	}
	owed -= b.ExtraPay
	b.ExtraPay = 0
	b.Refund += owed

	refund, err := b.Apply(EventRequestRefund, 0)
	if err != nil {
		return Transition{}, err
	}
	t.To = refund.To
	return t, nil
}

// DueEvent picks what the auto check-in sweep does with a Confirmed booking.
func (b *Booking) DueEvent() BookingEvent {
	if b.ExtraPay > 0 {
		return EventCancel
	}
	return EventCheckIn
}

// Actions lists which lifecycle calls would currently succeed.
type Actions struct {
	CanPay    bool `json:"canPay"`
	CanCancel bool `json:"canCancel"`
	CanRefund bool `json:"canRefund"`
	CanUpdate bool `json:"canUpdate"`
	CanPayout bool `json:"canPayoutRefund"`
}

func (b *Booking) AvailableActions() Actions {
	return Actions{
		CanPay:    b.Status == BookingStatusWaiting || (b.Status == BookingStatusConfirmed && b.ExtraPay > 0),
		CanCancel: b.CanApply(EventCancel),
		CanRefund: b.CanApply(EventRequestRefund) && b.Refund > 0,
		CanUpdate: b.CanApply(EventReprice),
		CanPayout: b.CanApply(EventPayoutRefund) && b.Refund > 0,
	}
}
