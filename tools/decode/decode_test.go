package decode

import "testing"

type samplePayload struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func TestDecodeMapWeakNumbers(t *testing.T) {
	// JSON numbers arrive as float64.
	out, err := DecodeMap[samplePayload](map[string]any{"id": float64(42), "text": "hola"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 42 || out.Text != "hola" {
		t.Fatalf("got %+v", out)
	}
}

func TestDecodeMapWeakStringNumber(t *testing.T) {
	out, err := DecodeMap[samplePayload](map[string]any{"id": "7"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 7 {
		t.Fatalf("id = %d", out.ID)
	}
}

func TestDecodeMapMissingFieldsZero(t *testing.T) {
	out, err := DecodeMap[samplePayload](map[string]any{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 0 || out.Text != "" {
		t.Fatalf("got %+v", out)
	}
}

func TestDecodeMapBadType(t *testing.T) {
	if _, err := DecodeMap[samplePayload](map[string]any{"id": "abc"}); err == nil {
		t.Fatalf("expected error")
	}
}
