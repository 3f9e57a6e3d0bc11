package io

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed document.schema.json
var documentSchemaJSON []byte

const documentSchemaURL = "https://flowdoc.dev/schemas/document.json"

// DocumentSchema returns the JSON Schema that [ReadDocument] enforces.
func DocumentSchema() []byte {
	return bytes.Clone(documentSchemaJSON)
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(documentSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal document schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(documentSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add document schema resource: %w", err)
	}
	return c.Compile(documentSchemaURL)
})

// violations flattens a validation error tree into "location: message"
// strings, one per leaf.
func violations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", loc, leafMessage(verr))}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, violations(cause)...)
	}
	return out
}

// leafMessage keeps only the message of the last line of Error(), which
// the library prefixes with its own location.
func leafMessage(verr *jsonschema.ValidationError) string {
	msg := strings.TrimSpace(verr.Error())
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	msg = strings.TrimLeft(msg, "- ")
	if strings.HasPrefix(msg, "at ") {
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
	}
	return msg
}
