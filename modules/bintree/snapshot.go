package bintree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/segmentio/encoding/json"
)

// Snapshot is a detached copy of a tree shape, suitable for encoding.
type Snapshot struct {
	Occupant *ParticleID `json:"occupant,omitempty"`
	Left     *Snapshot   `json:"left,omitempty"`
	Right    *Snapshot   `json:"right,omitempty"`
}

func (t *Tree) Snapshot() *Snapshot {
	return newSnapshot(t.root)
}

func newSnapshot(n *Node) *Snapshot {
	if n == nil {
		return nil
	}

	s := &Snapshot{
		Left:  newSnapshot(n.left),
		Right: newSnapshot(n.right),
	}
	if id, ok := n.Occupant(); ok {
		s.Occupant = &id
	}
	return s
}

// Fingerprint returns the hex encoded Keccak-256 hash of the JSON encoding of
// the snapshot. Two trees with the same shape and occupants share a
// fingerprint.
func (s *Snapshot) Fingerprint() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", errors.New("encoding snapshot failed").Wrap(err)
	}
	return crypto.Keccak256Hash(b).Hex(), nil
}
