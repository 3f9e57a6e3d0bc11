package share

import (
	"bytes"

	"github.com/klauspost/compress/flate"
)

// encodeRaw compresses an arbitrary payload the way Encode does.
func encodeRaw(payload string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(payload)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return encoding.EncodeToString(buf.Bytes()), nil
}
