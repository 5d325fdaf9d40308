package bintree

// Tree owns the root node of a partition and the configuration used to insert
// into it. A Tree is not safe for concurrent use.
type Tree struct {
	cfg  *Config
	root *Node
	size int
}

// NewTree creates an empty tree. Uses default config if cfg is nil.
func NewTree(cfg *Config) *Tree {
	return &Tree{
		cfg:  cfg.OrDefault(),
		root: &Node{},
	}
}

// Config returns the current configuration.
func (t *Tree) Config() *Config {
	return t.cfg
}

func (t *Tree) Root() *Node {
	return t.root
}

// Len returns the number of ids stored in the tree.
func (t *Tree) Len() int {
	return t.size
}

// Insert stores id at the first empty node on the path of position, which
// must be in [0,1). It returns the path of the node where id was stored.
func (t *Tree) Insert(id ParticleID, position float64) (Path, error) {
	path, err := t.root.insert(t.cfg, id, position)
	if err != nil {
		instrumentInsertError(err)
		return path, err
	}

	t.size++
	instrumentInsert(t.cfg.Policy, len(path))
	return path, nil
}

// Reset discards every node and starts over from an empty root.
func (t *Tree) Reset() {
	t.root = &Node{}
	t.size = 0
}
