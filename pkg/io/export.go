package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/errors"
)

// WriteDocument encodes doc as indented JSON followed by a newline.
func WriteDocument(doc diagram.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// ExportFile writes doc to path, replacing any existing file.
func ExportFile(doc diagram.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create %s", path)
	}
	if err := WriteDocument(doc, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "close %s", path)
	}
	return nil
}
