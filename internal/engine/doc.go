// Package engine implements the calculator's operation engine: a pure state
// machine that accumulates digit entries, operator selections and control
// commands and produces the string the display should show.
//
// The engine evaluates strictly left to right with a single pending
// operation; there is no precedence and no parenthesis support. Errors
// (division by zero, out-of-contract commands, non-finite results) are
// values: the engine latches them, shows "Error" and ignores everything but
// clear-all until reset.
package engine
