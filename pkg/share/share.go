// Package share encodes editor state into compact URL-safe tokens.
//
// A token is the JSON state, compressed with raw DEFLATE and encoded as
// unpadded base64url, so it can travel in a query parameter:
//
//	token, _ := share.Encode(share.State{Code: src, Theme: "dark"})
//	link, _ := share.EncodeURL("https://flowdoc.example/", state)
//	state := share.Decode(token) // nil if token is damaged
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/url"

	"github.com/klauspost/compress/flate"
)

// Param is the query parameter that carries a token in a share URL.
const Param = "d"

// maxDecoded bounds the decompressed size of a token.
const maxDecoded = 4 << 20

// State is the shareable editor state.
type State struct {
	Code  string `json:"code"`
	Theme string `json:"theme,omitempty"`
}

var encoding = base64.RawURLEncoding

// Encode returns the token for state.
func Encode(state State) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return encoding.EncodeToString(buf.Bytes()), nil
}

// Decode returns the state in token, or nil if the token is empty, corrupt
// or carries no code field.
func Decode(token string) *State {
	if token == "" {
		return nil
	}
	compressed, err := encoding.DecodeString(token)
	if err != nil {
		return nil
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	data, err := io.ReadAll(io.LimitReader(r, maxDecoded+1))
	if err != nil || len(data) > maxDecoded {
		return nil
	}

	var raw struct {
		Code  *string `json:"code"`
		Theme string  `json:"theme"`
	}
	if err := json.Unmarshal(data, &raw); err != nil || raw.Code == nil {
		return nil
	}
	return &State{Code: *raw.Code, Theme: raw.Theme}
}

// EncodeURL returns base with its query replaced by the token for state.
func EncodeURL(base string, state State) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	token, err := Encode(state)
	if err != nil {
		return "", err
	}
	u.RawQuery = url.Values{Param: {token}}.Encode()
	return u.String(), nil
}

// DecodeURL extracts and decodes the token carried by a share URL.
func DecodeURL(link string) *State {
	u, err := url.Parse(link)
	if err != nil {
		return nil
	}
	return Decode(u.Query().Get(Param))
}
