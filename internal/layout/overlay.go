package layout

import (
	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
)

// Overlay is the top surface floating representations are attached to. It
// implements dnd.Overlay over a Node tree rooted at Root.
type Overlay struct {
	Root   *Node
	nodes  map[string]*Node
	floats []dnd.Representation
}

func NewOverlay(root *Node) *Overlay {
	return &Overlay{Root: root, nodes: map[string]*Node{}}
}

// Bind places container id at node n. Rebinding replaces the previous node,
// which is how a relayout moves containers.
func (o *Overlay) Bind(id string, n *Node) {
	o.nodes[id] = n
}

func (o *Overlay) NodeFor(id string) (*Node, bool) {
	n, ok := o.nodes[id]
	return n, ok
}

// ToOverlay converts r from c's space. Unbound containers are treated as
// sitting at the overlay origin.
func (o *Overlay) ToOverlay(c dnd.Container, r geom.Rect) geom.Rect {
	n, ok := o.nodes[c.ID()]
	if !ok {
		return r
	}
	return n.ToAncestor(r, o.Root)
}

func (o *Overlay) FromOverlay(c dnd.Container, r geom.Rect) geom.Rect {
	n, ok := o.nodes[c.ID()]
	if !ok {
		return r
	}
	return n.FromAncestor(r, o.Root)
}

func (o *Overlay) Attach(rep dnd.Representation) {
	for _, f := range o.floats {
		if f == rep {
			return
		}
	}
	o.floats = append(o.floats, rep)
}

func (o *Overlay) Detach(rep dnd.Representation) {
	for i, f := range o.floats {
		if f == rep {
			o.floats = append(o.floats[:i], o.floats[i+1:]...)
			return
		}
	}
}

// Floating returns attached representations, bottom first.
func (o *Overlay) Floating() []dnd.Representation {
	return append([]dnd.Representation(nil), o.floats...)
}
