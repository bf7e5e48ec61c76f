// Package graph provides the small state-graph engine that sequences the
// retrieval and generation steps of a chat turn.
//
// A StateGraph is built from named nodes, static edges and conditional edges,
// compiled once and invoked per turn. Execution is sequential: exactly one node
// runs at a time, and the graph stops when the special END node is reached.
//
//	g := graph.NewStateGraph[State]()
//	g.AddNode("route", "Select retrievers", route)
//	g.AddNode("retrieve", "Query retrievers", retrieve)
//	g.SetEntryPoint("route")
//	g.AddConditionalEdge("route", func(ctx context.Context, s State) string {
//		if len(s.Retrievers) == 0 {
//			return graph.END
//		}
//		return "retrieve"
//	})
//	g.AddEdge("retrieve", graph.END)
//
//	runnable, err := g.Compile()
//	final, err := runnable.Invoke(ctx, State{Query: q})
//
// Nodes may be retried according to a RetryPolicy. Retries wait with fixed,
// linear or exponential backoff and stop early when the context is cancelled.
package graph
