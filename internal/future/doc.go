// Package future provides write-once values that resolve asynchronously and
// the combinators used to compose them into a dependency graph.
//
// A Future is settled exactly once, either with a value or with an error.
// Dependent computations are registered with Map, Then, Catch, All and After;
// each registration returns a new Future immediately and never blocks the
// caller. Errors flow forward: a dependent of a failed Future fails with the
// same error without running its transformation.
//
// Await is the only blocking accessor and is meant for the edges of a
// program (entry points and tests), not for code that builds the graph.
package future
