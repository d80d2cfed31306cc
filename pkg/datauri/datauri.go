// Package datauri turns stored binary columns into data URIs for JSON responses.
package datauri

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const prefix = "data:"

var ErrMalformed = errors.New("malformed data uri")

// DetectMIME sniffs the content type of b without parameters, e.g. "image/png".
func DetectMIME(b []byte) string {
	mt := mimetype.Detect(b).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// Encode returns data:<mime>;base64,<payload> for b.
func Encode(b []byte) string {
	return prefix + DetectMIME(b) + ";base64," + base64.StdEncoding.EncodeToString(b)
}

// EncodeOptional is Encode for nullable columns; empty content yields nil.
func EncodeOptional(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := Encode(b)
	return &s
}

// Decode splits a base64 data URI back into its MIME type and bytes.
func Decode(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, prefix) {
		return "", nil, ErrMalformed
	}

	meta, payload, ok := strings.Cut(uri[len(prefix):], ",")
	if !ok {
		return "", nil, ErrMalformed
	}

	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, ErrMalformed
	}

	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrMalformed, err)
	}

	return mime, b, nil
}
