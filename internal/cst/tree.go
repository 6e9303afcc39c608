// Package cst holds the lossless concrete syntax tree for a single commit
// message. Nodes live in an arena addressed by 1-based IDs; the document
// root keeps its children ordered by span so lookups by offset are binary
// searches. Top-level spans are contiguous and cover the text exactly,
// error recovery included, so the tree always round-trips to the source.
package cst

import (
	"sort"

	"commitlang/internal/source"
)

type Tree struct {
	arena *Arena
	root  NodeID
}

func NewTree(capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Tree{arena: NewArena(capHint)}
}

// SetRoot allocates the document node covering sp. Called once per parse,
// before any Append.
func (t *Tree) SetRoot(sp source.Span) NodeID {
	t.root = t.arena.Allocate(Node{Kind: KindDocument, Span: sp})
	return t.root
}

func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) Get(id NodeID) *Node { return t.arena.Get(id) }

// Append allocates n as the next top-level child. Children must arrive in
// document order; the parser guarantees that.
func (t *Tree) Append(n Node) NodeID {
	n.Parent = t.root
	id := t.arena.Allocate(n)
	root := t.arena.Get(t.root)
	root.Children = append(root.Children, id)
	return id
}

// TopLevel returns the root's ordered children.
func (t *Tree) TopLevel() []NodeID {
	if !t.root.IsValid() {
		return nil
	}
	return t.arena.Get(t.root).Children
}

// FindAt resolves the top-level node at a byte offset. A boundary offset
// belongs to the node that starts there; offsets at or past the document end
// resolve to the last node. A tree without children returns the root.
func (t *Tree) FindAt(offset uint32) NodeID {
	kids := t.TopLevel()
	if len(kids) == 0 {
		return t.root
	}
	i := sort.Search(len(kids), func(i int) bool {
		return t.arena.Get(kids[i]).Span.End > offset
	})
	if i == len(kids) {
		return kids[len(kids)-1]
	}
	return kids[i]
}
