package models

import "github.com/google/uuid"

// Shop is a shop account as seen by the order context. Read-only here;
// accounts are managed by the identity service.
type Shop struct {
	ID          uuid.UUID
	AccountName string
	DisplayName string
	Role        Role
	Phone       string
	Address     string
}

// Answers reports whether name refers to this shop by display or account name.
func (s *Shop) Answers(name string) bool {
	return name == s.DisplayName || name == s.AccountName
}
