// Package document parses raw HTML into a read-only queryable view
// shared by every analyzer. Analyzers may select and read nodes but
// never mutate the tree, which keeps them order-independent.
package document
