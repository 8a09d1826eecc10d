// Package dnd coordinates a single pointer drag across a set of containers.
//
// Containers opt in through two capabilities: Draggable (can originate a
// drag) and Droppable (can receive one). A Coordinator is built once with an
// Overlay and the ordered list of participating containers; the capability
// of each container is resolved at that point and never re-probed.
//
// The host feeds the Coordinator a signal stream: Claim on a candidate press,
// then Began, zero or more Changed, and finally Ended or Cancelled via Handle.
// Callbacks on the containers are issued in a fixed order: OnLeave on the
// previous target always precedes OnHover on the next one, and OnDrop only
// fires when the drag ends over a container other than its source.
//
// A Coordinator is not safe for concurrent use. All calls are expected on the
// host's event loop.
package dnd
