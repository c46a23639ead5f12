// Package graph builds the typed, directed graph of a workflow document.
//
// # Model
//
// Every step element that carries an id becomes a Node with a Kind. Edges are
// directed from the step that precedes another in the document structure to
// that step, and carry the label of the branch they were created in
// ("Success", "Failure" or none). Jumps do not create nodes: a jump adds an
// edge from its source to the jump's location id, which is expected to be the
// id of a label (or any other step) defined elsewhere in the document.
//
// # Storage
//
// Nodes are kept in a map keyed by id together with their insertion order.
// Edges are kept as an adjacency list keyed by source id, in insertion order.
// Parallel edges between the same pair of nodes are preserved. Insertion order
// is what makes path resolution deterministic, so the builder visits elements
// in document pre-order.
//
// # Lifecycle
//
//  1. Built once per document by Build, using a builder owned by that call.
//  2. Read concurrently by the exception extractor and the path resolver.
//  3. Discarded when the document has been traced.
//
// A Graph is never mutated after Build returns, so it is safe for concurrent
// readers without locking.
package graph
