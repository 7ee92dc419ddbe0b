// Package transform provides graph algorithms that check a ranked item
// graph independently of the ranker.
//
// [FindCycle] returns the first dependency cycle as an explicit path, which
// the check command prints when declarations loop back on themselves.
//
// [AssignLayers] computes longest-path layers with Kahn's algorithm: items
// nothing depends on sit at layer 0 and every dependency sits at least one
// layer below each of its dependents. For graphs without pattern keys the
// ranker's result is exactly seed minus layer, and [RanksFromLayers] turns
// layers into those expected ranks so the two can be compared.
package transform
