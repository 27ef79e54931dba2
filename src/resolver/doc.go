// Package resolver turns an ordered list of glob-scoped override blocks into
// one effective configuration per file.
//
// Blocks are folded in declaration order; for every option key and rule
// identifier the last matching block wins. Global ignore patterns are checked
// first and exclude a path from every block. A loaded Resolver is immutable
// and safe for concurrent use.
package resolver
