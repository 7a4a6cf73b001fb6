package models

import "fmt"

// Status is the lifecycle state of an Order.
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusPreparing Status = "PREPARING"
	StatusOnWay     Status = "ON_WAY"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// allowedTransitions lists the legal next states. DELIVERED and CANCELLED are terminal.
var allowedTransitions = map[Status][]Status{
	StatusWaiting:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusOnWay, StatusCancelled},
	StatusOnWay:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus converts a wire or stored status string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := allowedTransitions[st]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// CanTransitionTo reports whether the transition table allows s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}
