package storage

import "testing"

func TestMetadataRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]string
	}{
		{"ascii", map[string]string{"Name": "Alice", "Original": "p1.jpg"}},
		{"cyrillic", map[string]string{"Name": "Алиса"}},
		{"empty value", map[string]string{"Name": ""}},
		{"punctuation", map[string]string{"Name": "O'Brien, Jr."}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc := encodeMetadata(tc.meta)
			dec, err := decodeMetadata(enc)
			if err != nil {
				t.Fatalf("decodeMetadata failed: %v", err)
			}
			if len(dec) != len(tc.meta) {
				t.Fatalf("got %d keys, want %d", len(dec), len(tc.meta))
			}
			for k, v := range tc.meta {
				if dec[k] != v {
					t.Errorf("key %s: got %q, want %q", k, dec[k], v)
				}
			}
		})
	}
}

func TestEncodeMetadataEmpty(t *testing.T) {
	if enc := encodeMetadata(nil); enc != nil {
		t.Errorf("expected nil for empty metadata, got %v", enc)
	}
}

func TestEncodeMetadataTransportSafe(t *testing.T) {
	enc := encodeMetadata(map[string]string{"Name": "Анна-Мария"})
	for _, v := range enc {
		for _, r := range v {
			if r > 127 {
				t.Fatalf("encoded value contains non-ASCII rune %q", r)
			}
		}
	}
}

func TestDecodeMetadataInvalid(t *testing.T) {
	_, err := decodeMetadata(map[string]string{"Name": "not base64!!"})
	if err == nil {
		t.Fatal("expected error for invalid base64 value")
	}
}
