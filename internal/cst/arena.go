package cst

// NodeID addresses a node inside an Arena. IDs are 1-based; 0 means "no
// node".
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Arena is flat storage for nodes. Allocation never invalidates earlier IDs;
// Get returns pointers into the arena, valid until the arena is discarded.
type Arena struct {
	nodes []Node
}

func NewArena(capHint uint) *Arena {
	return &Arena{nodes: make([]Node, 0, capHint)}
}

// Allocate appends value and returns its 1-based ID.
func (a *Arena) Allocate(value Node) NodeID {
	a.nodes = append(a.nodes, value)
	return NodeID(len(a.nodes))
}

func (a *Arena) Get(id NodeID) *Node {
	if id == NoNodeID {
		return nil
	}
	return &a.nodes[id-1]
}

func (a *Arena) Len() uint32 {
	return uint32(len(a.nodes))
}
