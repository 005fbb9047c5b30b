package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Capability is the permission level a member holds on a shared group.
// Levels are ordered: every capability includes the ones below it.
type Capability int

const (
	CapabilityRead Capability = iota
	CapabilityWrite
	CapabilityInvite
)

// AtLeast reports whether c includes the required capability.
func (c Capability) AtLeast(required Capability) bool {
	return c >= required
}

func (c Capability) String() string {
	switch c {
	case CapabilityRead:
		return "read"
	case CapabilityWrite:
		return "write"
	case CapabilityInvite:
		return "invite"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Valid reports whether c is one of the known capabilities.
func (c Capability) Valid() bool {
	return c >= CapabilityRead && c <= CapabilityInvite
}

// ParseCapability parses the name produced by String.
func ParseCapability(s string) (Capability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return CapabilityRead, nil
	case "write":
		return CapabilityWrite, nil
	case "invite":
		return CapabilityInvite, nil
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}

func (c Capability) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid capability %d", int(c))
	}
	return json.Marshal(c.String())
}

func (c *Capability) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCapability(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
