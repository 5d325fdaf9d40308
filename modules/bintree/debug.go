package bintree

// DebugInfo summarizes the shape of a tree.
type DebugInfo struct {
	Policy        OccupantPolicy `json:"policy"`
	MaxDepth      int            `json:"max_depth"`
	NodeCount     int            `json:"node_count"`
	OccupantCount int            `json:"occupant_count"`

	// The depth of the deepest node, the root being at 0.
	Depth int `json:"depth"`

	// The number of nodes holding an occupant and at least one child.
	CoexistCount int `json:"coexist_count"`
}

func (t *Tree) GetDebugInfo() DebugInfo {
	info := DebugInfo{
		Policy:   t.cfg.Policy,
		MaxDepth: t.cfg.MaxDepth,
	}
	collectDebugInfo(t.root, 0, &info)
	return info
}

func collectDebugInfo(n *Node, depth int, info *DebugInfo) {
	if n == nil {
		return
	}

	info.NodeCount++
	if depth > info.Depth {
		info.Depth = depth
	}
	if n.occupied {
		info.OccupantCount++
		if !n.IsLeaf() {
			info.CoexistCount++
		}
	}

	collectDebugInfo(n.left, depth+1, info)
	collectDebugInfo(n.right, depth+1, info)
}
