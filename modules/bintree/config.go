package bintree

import "strings"

// DefaultMaxDepth is enough levels to separate any two distinct float64 values
// in [0,1): doubling is exact and the smallest subnormal is 2^-1074.
const DefaultMaxDepth = 1075

// OccupantPolicy decides what happens to the occupant of a node once a second
// particle reaches it.
type OccupantPolicy int

const (
	// KeepOccupant leaves the first occupant on the node that gains children.
	// Such a node holds an occupant and children at the same time.
	KeepOccupant OccupantPolicy = iota

	// PushDownOccupant moves the first occupant into the child its own
	// rescaled position routes to, so a node is either empty, a single
	// occupant leaf or an internal node.
	PushDownOccupant
)

func (p OccupantPolicy) String() string {
	switch p {
	case PushDownOccupant:
		return "push_down"
	default:
		return "keep"
	}
}

// MarshalText encodes the policy with its name.
func (p OccupantPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *OccupantPolicy) UnmarshalText(text []byte) error {
	*p = ParseOccupantPolicy(string(text))
	return nil
}

// ParseOccupantPolicy returns the policy with the given name. Unknown names
// fall back to KeepOccupant.
func ParseOccupantPolicy(v string) OccupantPolicy {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "push_down", "push-down", "pushdown":
		return PushDownOccupant
	default:
		return KeepOccupant
	}
}

// Config holds tree parameters.
type Config struct {
	MaxDepth int            // deepest level a node can be created at, default DefaultMaxDepth
	Policy   OccupantPolicy // default KeepOccupant
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
		Policy:   KeepOccupant,
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise a normalized copy of c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}

	cfg := *c
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Policy != PushDownOccupant {
		cfg.Policy = KeepOccupant
	}
	return &cfg
}
