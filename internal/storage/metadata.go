package storage

import (
	"encoding/base64"
	"fmt"
)

// Object-store user metadata travels as HTTP header values, which reject
// arbitrary bytes and non-ASCII text. Values are therefore base64-encoded on
// write and decoded on read; callers of the store only ever see plain text.

func encodeMetadata(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	enc := make(map[string]string, len(meta))
	for k, v := range meta {
		enc[k] = base64.StdEncoding.EncodeToString([]byte(v))
	}
	return enc
}

func decodeMetadata(meta map[string]string) (map[string]string, error) {
	dec := make(map[string]string, len(meta))
	for k, v := range meta {
		raw, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("decode metadata value %s: %w", k, err)
		}
		dec[k] = string(raw)
	}
	return dec, nil
}
