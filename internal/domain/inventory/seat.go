package inventory

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSeatNotAvailable = errors.New("seat is not available")
	ErrSeatNotReserved  = errors.New("seat is not reserved")
	ErrSeatAlreadySold  = errors.New("seat is already sold")
)

// Seat is one uniquely identified reserved-seating unit within a session.
// Price is inherited from its category.
type Seat struct {
	id         uuid.UUID
	sessionID  uuid.UUID
	label      string
	categoryID uuid.UUID
	status     SeatStatus
	holderID   *uuid.UUID
}

func ReconstructSeat(id, sessionID uuid.UUID, label string, categoryID uuid.UUID, status SeatStatus, holderID *uuid.UUID) *Seat {
	return &Seat{
		id:         id,
		sessionID:  sessionID,
		label:      label,
		categoryID: categoryID,
		status:     status,
		holderID:   holderID,
	}
}

// Reserve claims the seat for userID. Only an available seat can be reserved.
func (s *Seat) Reserve(userID uuid.UUID) error {
	if s.status != SeatAvailable {
		return ErrSeatNotAvailable
	}
	s.status = SeatReserved
	s.holderID = &userID
	return nil
}

// Release returns a reserved seat to the pool. Releasing a sold seat is
// forbidden; releasing an available seat is a no-op.
func (s *Seat) Release() error {
	switch s.status {
	case SeatSold:
		return ErrSeatAlreadySold
	case SeatAvailable:
		return nil
	}
	s.status = SeatAvailable
	s.holderID = nil
	return nil
}

// MarkSold finalizes the seat after its order is paid.
func (s *Seat) MarkSold() error {
	if s.status != SeatReserved {
		return ErrSeatNotReserved
	}
	s.status = SeatSold
	return nil
}

func (s *Seat) IsAvailable() bool {
	return s.status == SeatAvailable
}

func (s *Seat) ID() uuid.UUID         { return s.id }
func (s *Seat) SessionID() uuid.UUID  { return s.sessionID }
func (s *Seat) Label() string         { return s.label }
func (s *Seat) CategoryID() uuid.UUID { return s.categoryID }
func (s *Seat) Status() SeatStatus    { return s.status }
func (s *Seat) HolderID() *uuid.UUID  { return s.holderID }
