// Package selection keeps the selected HSPs consistent across the linked
// views of one result window.
//
// Every view addresses its rows differently (table row, tree node, MSA row).
// A HitKey is the shared currency; each view owns a ViewIndex translating
// between keys and its own handles, and an Adapter that connects the view to
// the window's Bus. The bus and adapters are confined to the UI goroutine.
// Callers that produce new data on another goroutine must hand it over to
// the UI goroutine before calling Rebuild or Publish.
package selection
