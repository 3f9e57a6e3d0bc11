package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/flowdoc/pkg/diagram"
	flowerrors "github.com/matzehuels/flowdoc/pkg/errors"
)

// MaxDocumentBytes bounds the input accepted by [ReadDocument].
const MaxDocumentBytes = 8 << 20

// ReadDocument decodes a JSON document from r.
//
// The input is validated against [DocumentSchema] first; any violation,
// malformed JSON, or duplicate node id yields an INVALID_DOCUMENT error
// naming the offending location. ReadDocument does not close r.
func ReadDocument(r io.Reader) (diagram.Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return diagram.Document{}, flowerrors.Wrap(flowerrors.ErrCodeInvalidDocument, err, "read document")
	}
	if len(data) > MaxDocumentBytes {
		return diagram.Document{}, flowerrors.New(flowerrors.ErrCodeInvalidDocument, "document exceeds %d bytes", MaxDocumentBytes)
	}
	return DecodeDocument(data)
}

// DecodeDocument validates and decodes a JSON document held in memory.
func DecodeDocument(data []byte) (diagram.Document, error) {
	if err := ValidateJSON(data); err != nil {
		return diagram.Document{}, err
	}

	var doc diagram.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return diagram.Document{}, flowerrors.Wrap(flowerrors.ErrCodeInvalidDocument, err, "decode document")
	}

	seen := make(map[string]struct{}, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if _, dup := seen[n.ID]; dup {
			return diagram.Document{}, flowerrors.New(flowerrors.ErrCodeInvalidDocument, "/nodes/%d/id: duplicate node id %q", i, n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return doc, nil
}

// ValidateJSON checks data against [DocumentSchema].
func ValidateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return flowerrors.Wrap(flowerrors.ErrCodeInternal, err, "compile document schema")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return flowerrors.Wrap(flowerrors.ErrCodeInvalidDocument, err, "malformed JSON")
	}
	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return flowerrors.Wrap(flowerrors.ErrCodeInvalidDocument, err, "invalid document")
		}
		return flowerrors.New(flowerrors.ErrCodeInvalidDocument, "%s", strings.Join(violations(verr), "; "))
	}
	return nil
}

// ImportFile reads a JSON document from path.
func ImportFile(path string) (diagram.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return diagram.Document{}, flowerrors.Wrap(flowerrors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}
