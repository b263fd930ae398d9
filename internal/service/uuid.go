package service

import "github.com/google/uuid"

// DefaultUUIDGenerator generates random UUIDs
type DefaultUUIDGenerator struct{}

func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}
