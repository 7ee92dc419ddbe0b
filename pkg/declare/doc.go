// Package declare extracts item dependency declarations from calculation
// scripts.
//
// Calculation scripts announce what they read and what they produce with
// comment lines:
//
//	# token input: abilities|strength
//	# token input: items|*
//	# token output: combat|melee attack
//
// Consecutive input lines followed by consecutive output lines form a block:
// every output of the block depends on every input of the block. An input
// line that follows an output starts a new block. The wildcard "*" is
// rewritten to the pattern token ".+", so "items|*" becomes the key
// "items:.+".
//
// [Parse] and [ParseFile] read a single source, [Merge] combines parsed
// files into the raw dependency map consumed by the rank package, and
// [Scanner] does both for a directory of scripts, parsing files in parallel.
//
// Malformed declaration lines never fail a scan. They are collected as
// [Warning] values with their file and line so they can be reported.
package declare
