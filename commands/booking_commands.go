package commands

import (
	"context"

	"accommodation/constants"
	"accommodation/models"
	"accommodation/repository"
)

// BookingCommand is one write step executed inside a store transaction
type BookingCommand interface {
	Execute(ctx context.Context, tx repository.Store) error
}

// Run executes cmds in order and stops at the first error
func Run(ctx context.Context, tx repository.Store, cmds ...BookingCommand) error {
	for _, cmd := range cmds {
		if err := cmd.Execute(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

type CreateBookingCommand struct {
	booking *models.Booking
}

func NewCreateBookingCommand(booking *models.Booking) *CreateBookingCommand {
	return &CreateBookingCommand{booking: booking}
}

func (c *CreateBookingCommand) Execute(ctx context.Context, tx repository.Store) error {
	return tx.Bookings().Create(ctx, c.booking)
}

type UpdateBookingCommand struct {
	booking *models.Booking
}

func NewUpdateBookingCommand(booking *models.Booking) *UpdateBookingCommand {
	return &UpdateBookingCommand{booking: booking}
}

func (c *UpdateBookingCommand) Execute(ctx context.Context, tx repository.Store) error {
	return tx.Bookings().Update(ctx, c.booking)
}

// PostIncomeCommand appends a ledger entry and moves the cached property income with it
type PostIncomeCommand struct {
	entry *models.IncomeEntry
}

func NewPostIncomeCommand(entry *models.IncomeEntry) *PostIncomeCommand {
	return &PostIncomeCommand{entry: entry}
}

func (c *PostIncomeCommand) Execute(ctx context.Context, tx repository.Store) error {
	if c.entry.Amount == 0 {
		return nil
	}
	if err := tx.Ledger().Append(ctx, c.entry); err != nil {
		return err
	}
	return tx.Properties().AddIncome(ctx, c.entry.PropertyID, c.entry.Amount)
}

type HoldRoomCommand struct {
	room *models.Room
}

func NewHoldRoomCommand(room *models.Room) *HoldRoomCommand {
	return &HoldRoomCommand{room: room}
}

func (c *HoldRoomCommand) Execute(ctx context.Context, tx repository.Store) error {
	if c.room.AvailabilityStatus == constants.RoomStatusBooked {
		return nil
	}
	c.room.AvailabilityStatus = constants.RoomStatusBooked
	return tx.Rooms().Update(ctx, c.room)
}

// ReleaseRoomCommand marks the room available again unless another booking still holds it
type ReleaseRoomCommand struct {
	roomID    string
	bookingID string
}

func NewReleaseRoomCommand(roomID, bookingID string) *ReleaseRoomCommand {
	return &ReleaseRoomCommand{roomID: roomID, bookingID: bookingID}
}

func (c *ReleaseRoomCommand) Execute(ctx context.Context, tx repository.Store) error {
	others, err := tx.Bookings().CountHoldingByRoom(ctx, c.roomID, c.bookingID)
	if err != nil {
		return err
	}
	if others > 0 {
		return nil
	}
	room, err := tx.Rooms().FindByID(ctx, c.roomID)
	if err != nil {
		return err
	}
	if room.AvailabilityStatus == constants.RoomStatusAvailable {
		return nil
	}
	room.AvailabilityStatus = constants.RoomStatusAvailable
	return tx.Rooms().Update(ctx, room)
}
