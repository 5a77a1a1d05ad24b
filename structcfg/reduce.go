package structcfg

// Reduce collapses if/while-true patterns out of the raw graph built by
// Build, to a fixpoint: each pass stops at the first candidate it finds,
// applies it and starts a fresh scan, so applying a reduction never
// invalidates a scan still being walked.
func Reduce(g *Graph) {
	for {
		if applyOneWhileTrue(g) {
			continue
		}
		if applyOneIf(g) {
			continue
		}
		return
	}
}

// applyOneWhileTrue finds a single back edge (an edge whose target can
// already reach its source without using that edge) and collapses the
// straight-line chain between target and source into one WhileTrueNode,
// provided every node on that chain after the header has exactly one
// predecessor (so nothing outside the loop jumps into its middle).
func applyOneWhileTrue(g *Graph) bool {
	for _, eid := range g.Edges() {
		e := g.Edge(eid)
		if e == nil || e.Kind == EntryEdge || e.Kind == ExitEdge {
			continue
		}
		if !reachesWithout(g, e.To, e.From, eid) {
			continue
		}
		chain, ok := straightChain(g, e.To, e.From, eid)
		if !ok {
			continue
		}
		collapseWhileTrue(g, chain, eid)
		return true
	}
	return false
}

// reachesWithout reports whether to can reach from, following any edge
// except skip.
func reachesWithout(g *Graph, from, to NodeID, skip EdgeID) bool {
	visited := map[NodeID]bool{}
	stack := []NodeID{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		for _, eid := range g.OutEdges(n) {
			if eid == skip {
				continue
			}
			if e := g.Edge(eid); e != nil {
				stack = append(stack, e.To)
			}
		}
	}
	return false
}

// straightChain walks from header toward tail following single
// successor/single predecessor nodes only, returning the ordered node
// list if the walk reaches tail cleanly (no branch point, no join) and
// tail's back edge is the only way out of the chain other than possible
// loop-exit edges recorded alongside it.
func straightChain(g *Graph, header, tail NodeID, backEdge EdgeID) ([]NodeID, bool) {
	chain := []NodeID{header}
	cur := header
	for cur != tail {
		outs := g.OutEdges(cur)
		var next NodeID
		found := false
		for _, eid := range outs {
			e := g.Edge(eid)
			if e == nil {
				continue
			}
			if e.To == tail || onPathToTail(g, e.To, tail, backEdge) {
				if found {
					return nil, false // more than one way forward into the chain
				}
				next, found = e.To, true
			}
		}
		if !found {
			return nil, false
		}
		if len(g.InEdges(next)) != 1 {
			return nil, false
		}
		chain = append(chain, next)
		cur = next
		if len(chain) > len(g.Nodes())+1 {
			return nil, false // safety valve against malformed graphs
		}
	}
	return chain, true
}

func onPathToTail(g *Graph, from, tail NodeID, backEdge EdgeID) bool {
	return from == tail || reachesWithout(g, from, tail, backEdge)
}

func collapseWhileTrue(g *Graph, chain []NodeID, backEdge EdgeID) {
	header := chain[0]
	tail := chain[len(chain)-1]

	var body NodeID
	if len(chain) == 1 {
		body = header
	} else {
		body = g.AddNode(InstructionCollection)
		g.Node(body).Members = append([]NodeID{}, chain...)
	}

	loopNode := g.AddNode(WhileTrueNode)
	g.Node(loopNode).Body = body

	// Redirect every edge that pointed into the chain's header from
	// outside the chain to the new loop node, and every edge that leaves
	// the chain (from the tail, other than the back edge itself) to
	// originate from the loop node instead.
	inChain := map[NodeID]bool{}
	for _, n := range chain {
		inChain[n] = true
	}

	for _, eid := range g.InEdges(header) {
		if eid == backEdge {
			continue
		}
		e := g.Edge(eid)
		if e == nil || inChain[e.From] {
			continue
		}
		e.To = loopNode
	}

	for _, eid := range g.OutEdges(tail) {
		if eid == backEdge {
			continue
		}
		e := g.Edge(eid)
		if e == nil || inChain[e.To] {
			continue
		}
		e.From = loopNode
	}

	// Drop every edge now fully internal to the absorbed chain (this
	// also catches the back edge itself). The chain's nodes are not
	// deleted -- the InstructionCollection (or the loop node directly,
	// for a one-node body) still reaches them by ID -- they are only
	// retired from Nodes(), since the loop node now stands in their
	// place at the top level.
	for _, eid := range g.Edges() {
		e := g.Edge(eid)
		if e != nil && inChain[e.From] && inChain[e.To] {
			g.RemoveEdge(eid)
		}
	}
	for _, n := range chain {
		g.retire(n)
	}
	if len(chain) > 1 {
		g.retire(body)
	}
}

// applyOneIf finds a node with exactly two outgoing edges -- one
// TrueEdge, one FalseEdge -- whose shape matches spec's if-candidate:
// one of the two successors is a single-body arm that rejoins the
// other successor directly.
func applyOneIf(g *Graph) bool {
	for _, id := range g.Nodes() {
		n := g.Node(id)
		if n == nil {
			continue
		}

		outs := g.OutEdges(id)
		if len(outs) != 2 {
			continue
		}
		var trueEdge, falseEdge *Edge
		for _, eid := range outs {
			e := g.Edge(eid)
			switch e.Kind {
			case TrueEdge:
				trueEdge = e
			case FalseEdge:
				falseEdge = e
			}
		}
		if trueEdge == nil || falseEdge == nil {
			continue
		}

		body, join, inverted, ok := ifCandidate(g, trueEdge.To, falseEdge.To)
		if !ok {
			continue
		}

		collapseIf(g, id, trueEdge, falseEdge, body, join, inverted)
		return true
	}
	return false
}

// ifCandidate implements spec's if-candidate predicate: exactly one of
// the condition's two successors (t for TrueEdge, f for FalseEdge) is a
// single-body arm -- exactly one incoming edge, exactly one outgoing
// AlwaysEdge -- whose own edge lands on the *other* successor directly.
// Inverted reports whether the body came from the false side.
func ifCandidate(g *Graph, t, f NodeID) (body, join NodeID, inverted, ok bool) {
	if j, has := singleSuccessorJoin(g, t); has && j == f {
		return t, f, false, true
	}
	if j, has := singleSuccessorJoin(g, f); has && j == t {
		return f, t, true, true
	}
	return 0, 0, false, false
}

// singleSuccessorJoin reports whether n has exactly one incoming edge and
// exactly one outgoing AlwaysEdge, returning that edge's target.
func singleSuccessorJoin(g *Graph, n NodeID) (NodeID, bool) {
	if len(g.InEdges(n)) != 1 {
		return 0, false
	}
	outs := g.OutEdges(n)
	if len(outs) != 1 {
		return 0, false
	}
	e := g.Edge(outs[0])
	if e == nil || e.Kind != AlwaysEdge {
		return 0, false
	}
	return e.To, true
}

// collapseIf replaces cond in the graph with a fresh IfNode(cond, body,
// inverted), per spec §4.3: cond's incoming edges are rewired to the new
// node, a single AlwaysEdge continues to join, and cond/body are
// retired rather than deleted so the new node's Instructions/
// ContainsAddress can still reach them.
func collapseIf(g *Graph, cond NodeID, trueEdge, falseEdge *Edge, body, join NodeID, inverted bool) {
	ifID := g.AddNode(IfNode)
	ifNode := g.Node(ifID)
	ifNode.Cond = cond
	ifNode.Body = body
	ifNode.Join = join
	ifNode.Inverted = inverted

	for _, eid := range g.InEdges(cond) {
		e := g.Edge(eid)
		if e != nil {
			e.To = ifID
		}
	}
	g.AddEdge(AlwaysEdge, ifID, join)

	g.RemoveEdge(trueEdge.ID)
	g.RemoveEdge(falseEdge.ID)
	g.retire(cond)
	g.retire(body)
}
