package sim

import "strconv"

// NodeAccessor resolves a per-node numeric parameter (strength, radius,
// target x/y, ...). Forces call Const to wrap a constant, or accept any
// func matching this signature directly — the accessor protocol is just
// "a function of (node, index, all nodes)", with a constant being the
// degenerate case that ignores its arguments.
type NodeAccessor func(n *Node, i int, nodes []*Node) float64

// Const returns a NodeAccessor that ignores its arguments and always
// returns v, the Go equivalent of passing a constant where the protocol
// expects a function.
func Const(v float64) NodeAccessor {
	return func(*Node, int, []*Node) float64 { return v }
}

// LinkAccessor resolves a per-link numeric parameter (strength, distance).
type LinkAccessor func(l *Link, i int, links []*Link) float64

// ConstLink is Const for links.
func ConstLink(v float64) LinkAccessor {
	return func(*Link, int, []*Link) float64 { return v }
}

// IDAccessor resolves the id a link's SourceID/TargetID should match
// against. The default is the node's positional index, formatted as a
// decimal string, so that numeric-index wiring (the common case) needs no
// accessor at all.
type IDAccessor func(n *Node, i int, nodes []*Node) string

// DefaultID is the IDAccessor used when a force isn't given one: a node's
// id is its index in the nodes slice at initialization time.
func DefaultID(n *Node, i int, nodes []*Node) string {
	return strconv.Itoa(i)
}

// materializeNodes resolves a NodeAccessor into a dense array, once, at
// force initialization — the accessor protocol is evaluated eagerly so a
// force's per-tick hot loop never calls back into caller code.
func materializeNodes(nodes []*Node, acc NodeAccessor) []float64 {
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = acc(n, i, nodes)
	}
	return out
}

// materializeLinks resolves a LinkAccessor into a dense array.
func materializeLinks(links []*Link, acc LinkAccessor) []float64 {
	out := make([]float64, len(links))
	for i, l := range links {
		out[i] = acc(l, i, links)
	}
	return out
}

// materializeIDs resolves an IDAccessor into an id -> node index map, used
// by ForceLink to turn SourceID/TargetID into a *Node.
func materializeIDs(nodes []*Node, acc IDAccessor) map[string]int {
	out := make(map[string]int, len(nodes))
	for i, n := range nodes {
		out[acc(n, i, nodes)] = i
	}
	return out
}
