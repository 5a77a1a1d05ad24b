// Package structcfg builds the structural control-flow graph (spec
// component C4): an arena-indexed graph over a function's micro.Blocks,
// reduced by collapsing if/while-true patterns out of raw branch edges.
package structcfg

import "github.com/retrosn/psxcfg/micro"

// NodeID and EdgeID index into a Graph's arenas. Zero is never a valid
// ID; the zero value of NodeID/EdgeID means "absent".
type NodeID int
type EdgeID int

// NodeKind is the closed set of structural node shapes.
type NodeKind int

const (
	EntryNode NodeKind = iota
	ExitNode
	InstructionSequence   // one fused micro.Block, unreduced
	InstructionCollection // several sequences merged by reduction bookkeeping
	IfNode
	WhileTrueNode
)

// EdgeKind classifies a structural edge.
type EdgeKind int

const (
	AlwaysEdge EdgeKind = iota
	TrueEdge
	FalseEdge
	EntryEdge
	ExitEdge
)

// Node is one flat struct reused across all NodeKinds; which fields
// matter depends on Kind, mirroring micro.Arg's closed-variant shape.
// Every node answers spec §3.4's node interface (StableID,
// InputRegisters/OutputRegisters, Instructions, ContainsAddress) in
// node.go, which is why each carries a back-pointer to its owning Graph:
// composite kinds resolve their children by ID through it.
type Node struct {
	ID   NodeID
	Kind NodeKind
	g    *Graph

	// InstructionSequence: the block address it was built from.
	BlockAddr uint32

	// InstructionCollection: the member sequence/collection node IDs, in
	// original program order.
	Members []NodeID

	// IfNode: the condition child, the single body child taken when the
	// condition holds (or doesn't, if Inverted), and the join both the
	// body and the condition's other arm reconverge to.
	Cond     NodeID
	Body     NodeID
	Join     NodeID
	Inverted bool

	// WhileTrueNode also uses Body, for its loop body.
}

// Edge is one flat struct for all EdgeKinds.
type Edge struct {
	ID   EdgeID
	Kind EdgeKind
	From NodeID
	To   NodeID
}

// Graph is the structural CFG for one function: arena-indexed so nodes
// and edges can be added, removed, and rewired by ID without disturbing
// other references into the arena.
type Graph struct {
	nodes   map[NodeID]*Node
	edges   map[EdgeID]*Edge
	retired map[NodeID]bool
	blocks  map[uint32]*micro.Block
	nextN   NodeID
	nextE   EdgeID

	Entry NodeID
	Exit  NodeID
}

// NewGraph creates an empty graph with its Entry and Exit nodes already
// placed. blocks is the function's owning micro-block map, kept so
// InstructionSequence nodes can resolve their instructions by address.
func NewGraph(blocks map[uint32]*micro.Block) *Graph {
	g := &Graph{
		nodes:   make(map[NodeID]*Node),
		edges:   make(map[EdgeID]*Edge),
		retired: make(map[NodeID]bool),
		blocks:  blocks,
	}
	g.Entry = g.AddNode(EntryNode)
	g.Exit = g.AddNode(ExitNode)
	return g
}

// AddNode allocates a new node of the given kind and returns its ID.
func (g *Graph) AddNode(kind NodeKind) NodeID {
	g.nextN++
	id := g.nextN
	g.nodes[id] = &Node{ID: id, Kind: kind, g: g}
	return id
}

// Node returns the node for id, or nil if it has been removed. A
// retired node (one folded into a parent by a reduction) still resolves
// here -- only Nodes() hides it.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// RemoveNode deletes a node from the arena outright. Edges still
// referencing it are the caller's responsibility to have already
// rewired or removed. Reductions that fold a node into a surviving
// parent should call retire instead, so the parent can still reach it.
func (g *Graph) RemoveNode(id NodeID) {
	delete(g.nodes, id)
	delete(g.retired, id)
}

// retire excuses a node from Nodes() and strips its remaining edges,
// without deleting it from the arena: a reduction that absorbs a node
// into a parent (IfNode.Body, WhileTrueNode.Body, an
// InstructionCollection's Members) keeps reaching it by ID through that
// parent, so its instructions and addresses stay conserved even though
// it is no longer a top-level node.
func (g *Graph) retire(id NodeID) {
	for _, eid := range g.OutEdges(id) {
		g.RemoveEdge(eid)
	}
	for _, eid := range g.InEdges(id) {
		g.RemoveEdge(eid)
	}
	g.retired[id] = true
}

// AddEdge allocates a new edge and returns its ID.
func (g *Graph) AddEdge(kind EdgeKind, from, to NodeID) EdgeID {
	g.nextE++
	id := g.nextE
	g.edges[id] = &Edge{ID: id, Kind: kind, From: from, To: to}
	return id
}

// Edge returns the edge for id, or nil if it has been removed.
func (g *Graph) Edge(id EdgeID) *Edge {
	return g.edges[id]
}

// RemoveEdge deletes an edge from the arena.
func (g *Graph) RemoveEdge(id EdgeID) {
	delete(g.edges, id)
}

// Nodes returns every live, non-retired node ID, in no particular order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		if g.retired[id] {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Edges returns every live edge ID, in no particular order.
func (g *Graph) Edges() []EdgeID {
	ids := make([]EdgeID, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	return ids
}

// OutEdges returns the IDs of edges leaving node id.
func (g *Graph) OutEdges(id NodeID) []EdgeID {
	var out []EdgeID
	for eid, e := range g.edges {
		if e.From == id {
			out = append(out, eid)
		}
	}
	return out
}

// InEdges returns the IDs of edges entering node id.
func (g *Graph) InEdges(id NodeID) []EdgeID {
	var in []EdgeID
	for eid, e := range g.edges {
		if e.To == id {
			in = append(in, eid)
		}
	}
	return in
}
