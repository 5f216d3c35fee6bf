package inventory

// SeatStatus is the lifecycle of a reserved-seating unit. A seat only ever
// moves available -> reserved -> sold, or reserved -> available on release;
// sold is terminal.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatReserved  SeatStatus = "reserved"
	SeatSold      SeatStatus = "sold"
)

func (s SeatStatus) String() string {
	return string(s)
}

func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatAvailable, SeatReserved, SeatSold:
		return true
	default:
		return false
	}
}

// HoldKind distinguishes a hold on one identified seat from a hold on counted
// general-admission capacity.
type HoldKind string

const (
	HoldKindSeat    HoldKind = "seat"
	HoldKindGeneral HoldKind = "general"
)

func (k HoldKind) String() string {
	return string(k)
}

func (k HoldKind) IsValid() bool {
	switch k {
	case HoldKindSeat, HoldKindGeneral:
		return true
	default:
		return false
	}
}
