// Package io reads and writes the files the ranker produces.
//
// # Dependency Tree Artifact
//
// The artifact consumed by the sheet generator groups item keys by rank:
//
//	{
//	    "dependency tree": {
//	        "-1": [
//	            "base:level"
//	        ],
//	        "0": [
//	            "abilities:strength",
//	            "combat:bab"
//	        ],
//	        "1": [
//	            "combat:melee attack"
//	        ]
//	    }
//	}
//
// Ranks appear in numeric order, keys within a rank are sorted, indentation
// is four spaces and non-ASCII text is written unescaped. Use [WriteTree] or
// [ExportTree] to produce it and [ReadTree] or [ImportTree] to load it back.
//
// # Graph JSON
//
// [WriteGraph] and [ReadGraph] serialize the ranked graph itself, including
// edges and node flags, for external tools and for the render command:
//
//	{
//	  "nodes": [
//	    {"id": "combat:bab", "rank": 0, "output": true},
//	    {"id": "base:level", "rank": -1}
//	  ],
//	  "edges": [
//	    {"from": "combat:bab", "to": "base:level"}
//	  ]
//	}
//
// Both readers return INVALID_FORMAT errors from pkg/errors for malformed
// input.
package io
