package diagram

import "strconv"

// Identifier prefixes for generated ids.
const (
	NodeIDPrefix     = "N"
	EdgeIDPrefix     = "e-"
	RawBlockIDPrefix = "raw-"
)

// NodeID returns the generated node id with sequence number n ("N3").
func NodeID(n int) string { return NodeIDPrefix + strconv.Itoa(n) }

// EdgeID returns the generated edge id with sequence number n ("e-3").
func EdgeID(n int) string { return EdgeIDPrefix + strconv.Itoa(n) }

// RawBlockID returns the generated unsupported-block id with sequence number n ("raw-3").
func RawBlockID(n int) string { return RawBlockIDPrefix + strconv.Itoa(n) }
