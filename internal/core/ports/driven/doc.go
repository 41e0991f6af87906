// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the model transport, the embedding
// function, the persistent chunk index, the contact log and the
// prompt store. Core services depend on these interfaces and never
// on concrete adapters.
package driven
