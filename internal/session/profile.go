package session

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Role is a coarse access marker. Any string is accepted; only equality
// with RoleAdmin grants anything.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Profile is the identity payload returned by the backend's "who am I"
// endpoint. Only Role is interpreted; everything else is carried as-is.
type Profile struct {
	ID    string         `mapstructure:"id" json:"id,omitempty"`
	Name  string         `mapstructure:"name" json:"name,omitempty"`
	Email string         `mapstructure:"email" json:"email,omitempty"`
	Role  Role           `mapstructure:"role" json:"role,omitempty"`
	Extra map[string]any `mapstructure:",remain" json:"-"`
}

// DecodeProfile maps a decoded JSON object onto a Profile without
// defaulting missing fields. Numeric ids are stringified.
func DecodeProfile(raw map[string]any) (*Profile, error) {
	var p Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build profile decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}
