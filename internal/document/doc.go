// Package document loads workflow description documents into an element tree
// and locates their entry element.
//
// A workflow document is well-formed XML whose steps are nested elements
// (fork, condition, conditionGroup, operation, jump, label, end) reachable
// from a single start element. This package does not interpret the steps; it
// only guarantees that the markup parses and that exactly one entry exists.
package document
