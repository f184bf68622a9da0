package dto

import (
	"bytes"
	"encoding/json"
	"errors"
)

var ErrTrailingData = errors.New("unexpected data after JSON body")

// DecodeStrict is installed as the app's JSON decoder so every bound request
// body rejects unknown fields and trailing garbage.
func DecodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}
