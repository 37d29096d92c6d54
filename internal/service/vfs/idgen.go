package vfs

import "github.com/google/uuid"

// IDGenerator produces entry identifiers
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues UUIDv7 strings: a millisecond timestamp prefix
// followed by random bits, so ids are unique and roughly creation-ordered.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
