// Package diagram defines the structured document model shared by the
// flowchart parser, serializer, validator and the editing operations.
//
// A [Document] is the editable counterpart of a flowchart source text. It
// holds nodes, edges, the layout direction and any source lines the grammar
// does not understand ([UnsupportedBlock]), so that nothing is lost when a
// document is written back to text.
//
// # Wire Format
//
// Documents serialize to JSON with the following shape:
//
//	{
//	  "version": "1",
//	  "kind": "flowchart",
//	  "direction": "LR",
//	  "nodes": [{"id": "A", "label": "Start", "shape": "rect", "x": 120, "y": 100, "width": 160, "height": 72}],
//	  "edges": [{"id": "e-1", "source": "A", "target": "B", "style": "solid"}],
//	  "subgraphs": [],
//	  "rawBlocks": []
//	}
//
// Empty collections always encode as [] so that a document survives a JSON
// round trip byte for byte.
//
// # Values, Not References
//
// Documents are plain values. Functions that edit a document return a new
// value and never write through the slices of their input; use
// [Document.Clone] before mutating a document you did not create.
//
// # Diagram Types
//
// [Detect] classifies arbitrary source text by its leading keyword. Only
// [TypeFlowchart] is modeled structurally; the other types exist so callers
// can route text elsewhere.
package diagram
