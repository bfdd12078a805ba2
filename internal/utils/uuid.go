// Package utils holds small helpers shared by the services.
package utils

import "github.com/google/uuid"

// UUIDGenerator hands out record ids. Version 7 ids sort by creation time,
// so records listed by id come out roughly in insertion order.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUIDv7, falling back to a random UUIDv4 if the
// clock source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
