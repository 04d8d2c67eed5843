// Package domain defines the core entities for querychat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChatEntry: One rendered line of the chat log
//   - QueryRequest: A single submission to the query backend
//   - ResultVariant: The closed set of interpreted backend responses
//   - ModeConfig: The parameters that distinguish one chat mode from another
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
