// Package bintree implements a one-dimensional Barnes-Hut style partition
// tree: the unit interval [0,1) is recursively halved and each particle is
// stored in the first empty node on its path.
package bintree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ParticleID is the index of a particle in its scene.
type ParticleID int

// Node is one cell of the binary subdivision of [0,1). The root covers [0,1),
// a left child covers the lower half of its parent and a right child the upper
// half. Positions handed to a node are expressed in the node's own [0,1)
// frame.
type Node struct {
	occupant    ParticleID
	occupantPos float64 // in this node's frame
	occupied    bool

	left  *Node
	right *Node
}

// Occupant returns the id stored directly at the node, if any.
func (n *Node) Occupant() (ParticleID, bool) {
	return n.occupant, n.occupied
}

func (n *Node) Left() *Node {
	return n.left
}

func (n *Node) Right() *Node {
	return n.right
}

// TouchLeft returns the left child, creating an empty one if absent.
func (n *Node) TouchLeft() *Node {
	if n.left == nil {
		n.left = &Node{}
	}
	return n.left
}

// TouchRight returns the right child, creating an empty one if absent.
func (n *Node) TouchRight() *Node {
	if n.right == nil {
		n.right = &Node{}
	}
	return n.right
}

// HasBothChildren reports whether the left and right children are both
// present. A node with a single child is neither a leaf nor reported here.
func (n *Node) HasBothChildren() bool {
	return n.left != nil && n.right != nil
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

// IsEmpty reports whether the node has neither an occupant nor children.
func (n *Node) IsEmpty() bool {
	return !n.occupied && n.IsLeaf()
}

// Insert stores id in the node's subtree with the default configuration.
// position must be in the node's frame.
func (n *Node) Insert(id ParticleID, position float64) error {
	_, err := n.insert(DefaultConfig(), id, position)
	return err
}

// insert descends from n until it reaches an empty node and stores id there.
// It returns the path from n to that node. Descending past cfg.MaxDepth fails
// and leaves the subtree as it was before the call, occupants pushed down on
// the way included.
func (n *Node) insert(cfg *Config, id ParticleID, position float64) (Path, error) {
	var path Path
	var undo []func()

	for node := n; ; {
		if node.IsEmpty() {
			node.occupant = id
			node.occupantPos = position
			node.occupied = true
			return path, nil
		}

		if len(path) >= cfg.MaxDepth {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}

			return path, errors.New("too many colliding insertions").
				WithType(ErrTypeDepthExceeded).
				WithTag("id", id).
				WithTag("position", position).
				WithTag("max_depth", cfg.MaxDepth)
		}

		if cfg.Policy == PushDownOccupant && node.occupied {
			undo = append(undo, node.pushDown())
		}

		var branch Branch
		var undoTouch func()
		branch, position = route(position)
		node, undoTouch = node.touchUndoable(branch)
		if undoTouch != nil {
			undo = append(undo, undoTouch)
		}
		path = append(path, branch)
	}
}

// touchUndoable returns the child on branch b, creating it if absent, and a
// function removing it when this call created it, nil otherwise.
func (n *Node) touchUndoable(b Branch) (*Node, func()) {
	if b == Right {
		if n.right != nil {
			return n.right, nil
		}
		n.right = &Node{}
		return n.right, func() { n.right = nil }
	}

	if n.left != nil {
		return n.left, nil
	}
	n.left = &Node{}
	return n.left, func() { n.left = nil }
}

// pushDown moves the occupant of a leaf into the child its position routes
// to. It returns a function moving the occupant back.
func (n *Node) pushDown() func() {
	id, pos := n.occupant, n.occupantPos
	branch, position := route(pos)

	child, undoTouch := n.touchUndoable(branch)
	child.occupant = id
	child.occupantPos = position
	child.occupied = true

	n.occupant = 0
	n.occupantPos = 0
	n.occupied = false

	return func() {
		child.occupant = 0
		child.occupantPos = 0
		child.occupied = false
		if undoTouch != nil {
			undoTouch()
		}

		n.occupant = id
		n.occupantPos = pos
		n.occupied = true
	}
}
