package reservations

// Status is a reservation lifecycle state. The literal values are the
// Indonesian patient-facing labels stored in the database.
type Status string

const (
	// StatusMenunggu is a freshly booked reservation (waiting).
	StatusMenunggu Status = "Menunggu"
	// StatusDikonfirmasi is a reservation confirmed by the clinic.
	StatusDikonfirmasi Status = "Dikonfirmasi"
	// StatusDibatalkan is a cancelled reservation (terminal).
	StatusDibatalkan Status = "Dibatalkan"
	// StatusSelesai marks a served patient (terminal).
	StatusSelesai Status = "Selesai"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusMenunggu, StatusDikonfirmasi, StatusDibatalkan, StatusSelesai:
		return true
	}
	return false
}

// Active reports whether the reservation still occupies a queue slot.
func (s Status) Active() bool {
	return s == StatusMenunggu || s == StatusDikonfirmasi
}

// ActiveStatuses lists the states that count toward the queue.
func ActiveStatuses() []Status {
	return []Status{StatusMenunggu, StatusDikonfirmasi}
}

var transitionMap = map[Status][]Status{
	StatusMenunggu:     {StatusDikonfirmasi, StatusDibatalkan},
	StatusDikonfirmasi: {StatusSelesai, StatusDibatalkan},
}

// CanTransition reports whether a reservation may move from one state to
// another. Terminal states (Dibatalkan, Selesai) have no outgoing edges.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitionMap[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
