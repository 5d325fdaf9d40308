package bintree

import (
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Branch is a left or right decision taken while descending the tree.
type Branch uint8

const (
	Left Branch = iota
	Right
)

func (b Branch) String() string {
	if b == Right {
		return "R"
	}
	return "L"
}

// Path is the sequence of branches from the root to a node. The root has an
// empty path.
type Path []Branch

func (p Path) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, branch := range p {
		b.WriteString(branch.String())
	}
	return b.String()
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Path) UnmarshalText(text []byte) error {
	path := make(Path, len(text))
	for i, c := range text {
		switch c {
		case 'L':
			path[i] = Left
		case 'R':
			path[i] = Right
		default:
			return errors.New("invalid path branch").
				WithTag("path", string(text)).
				WithTag("index", i)
		}
	}
	*p = path
	return nil
}

// PathOf returns the first depth branches taken by a position, rescaling it
// into the chosen child's frame at each level.
func PathOf(position float64, depth int) Path {
	path := make(Path, 0, depth)
	for i := 0; i < depth; i++ {
		var branch Branch
		branch, position = route(position)
		path = append(path, branch)
	}
	return path
}

// route picks the child covering position and maps position into that
// child's [0,1) frame. 0.5 goes right.
func route(position float64) (Branch, float64) {
	if position < 0.5 {
		return Left, position * 2
	}
	return Right, position*2 - 1
}
