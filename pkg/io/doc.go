// Package io reads and writes flowdoc documents in their JSON wire format.
//
// # JSON Format
//
// A document is a JSON object with the layout direction and arrays of nodes
// and edges. Empty collections are written as [] rather than null:
//
//	{
//	  "version": "1",
//	  "kind": "flowchart",
//	  "direction": "LR",
//	  "nodes": [
//	    {"id": "A", "label": "Start", "shape": "stadium", "x": 40, "y": 40, "width": 160, "height": 72}
//	  ],
//	  "edges": [
//	    {"id": "e-1", "source": "A", "target": "B", "style": "dotted"}
//	  ],
//	  "subgraphs": [],
//	  "rawBlocks": [
//	    {"id": "raw-1", "sourceText": "classDef red fill:#f00", "reason": "unknown_syntax", "line": 4}
//	  ]
//	}
//
// # Validation
//
// [ReadDocument] checks input against an embedded JSON Schema (draft
// 2020-12) before decoding, so unknown fields, bad enums and negative sizes
// are rejected with the offending location:
//
//	/nodes/0/shape: value must be one of "rect", "round", "diamond", "stadium"
//
// Duplicate node ids are rejected as well. Edges that reference missing
// nodes are accepted; use the flowchart validator to report them.
//
// # Round Trip
//
// [WriteDocument] output read back with [ReadDocument] yields an equal
// document, and writing it again yields identical bytes.
package io
