// Package layout is the view tree the board is drawn from. It converts
// rects between node spaces and composes floating layers over a rendered
// frame.
package layout

import "github.com/jask/cardshift/internal/geom"

// Node is a rectangle placed inside its parent. Frame is in the parent's
// space; a node's own space has its origin at Frame's origin.
type Node struct {
	Name   string
	Frame  geom.Rect
	Parent *Node
}

func NewNode(name string, frame geom.Rect, parent *Node) *Node {
	return &Node{Name: name, Frame: frame, Parent: parent}
}

// Bounds is the node's extent in its own space.
func (n *Node) Bounds() geom.Rect {
	return geom.Rect{W: n.Frame.W, H: n.Frame.H}
}

// ToAncestor converts r from n's space into anc's space by adding each
// frame origin on the way up. The walk stops at anc or at the root, so an
// anc that is not above n yields root-parent coordinates.
func (n *Node) ToAncestor(r geom.Rect, anc *Node) geom.Rect {
	return r.Translate(n.offset(anc))
}

// FromAncestor is the inverse of ToAncestor.
func (n *Node) FromAncestor(r geom.Rect, anc *Node) geom.Rect {
	return r.Translate(geom.Point{}.Sub(n.offset(anc)))
}

func (n *Node) offset(anc *Node) geom.Point {
	var d geom.Point
	for v := n; v != nil && v != anc; v = v.Parent {
		d = d.Add(v.Frame.Origin())
	}
	return d
}
