package chat

import (
	"encoding/json"
	"testing"
)

func TestParseFrameJSON(t *testing.T) {
	f, err := ParseFrameJSON([]byte(`{"type":"getHistory","data":{"cursor":71}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Type != FrameGetHistory {
		t.Fatalf("type = %q", f.Type)
	}
	req, err := DecodePayload[HistoryReq](f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Cursor != 71 {
		t.Fatalf("cursor = %d", req.Cursor)
	}
}

func TestParseFrameRejectsGarbage(t *testing.T) {
	if _, err := ParseFrameJSON([]byte(`not json`)); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseFrameJSON([]byte(`{"data":{}}`)); err == nil {
		t.Fatalf("expected error on missing type")
	}
}

func TestDecodePayloadNullCursor(t *testing.T) {
	f, err := ParseFrameJSON([]byte(`{"type":"getHistory","data":{"cursor":null}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	req, err := DecodePayload[HistoryReq](f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Cursor != 0 {
		t.Fatalf("null cursor should decode to 0, got %d", req.Cursor)
	}

	// Absent data object behaves the same.
	f, _ = ParseFrameJSON([]byte(`{"type":"getHistory"}`))
	req, err = DecodePayload[HistoryReq](f)
	if err != nil || req.Cursor != 0 {
		t.Fatalf("absent data: cursor=%d err=%v", req.Cursor, err)
	}
}

func TestDecodePayloadRejectsNonNumericID(t *testing.T) {
	f, err := ParseFrameJSON([]byte(`{"type":"jumpToMessage","data":{"id":"abc"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := DecodePayload[JumpReq](f); err == nil {
		t.Fatalf("expected decode error for non-numeric id")
	}
}

func TestBuildFrameRoundTrip(t *testing.T) {
	payload, err := BuildFrame(FrameMessageDeleted, DeletedEvt{ID: 42})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := ParseFrameJSON(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var evt DeletedEvt
	if err := json.Unmarshal(f.Data, &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.ID != 42 {
		t.Fatalf("id = %d", evt.ID)
	}
}
