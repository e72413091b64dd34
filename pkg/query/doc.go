// Package query provides a namespace-tolerant path query layer over XML
// device documents.
//
// Vendor device files come in two habits: the ATDF dialect carries no
// namespaces at all, while the PIC/EDC dialect prefixes everything with
// "edc". Query expressions therefore compare local names only; a prefix
// written in an expression is advisory and matches elements carrying
// that prefix or none. The explicit local-name() predicate forms resolve
// to exactly the same matches as their prefixed equivalents.
//
// Attribute lookups follow the same tolerance: the unprefixed attribute
// wins, then each namespace prefix declared in the document is tried in
// turn. The "edc" prefix is always known, declared or not.
package query
