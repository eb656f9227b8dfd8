package chat

import (
	"encoding/json"
	"fmt"

	"salachat/tools/decode"
)

// Logical channel identifiers. The envelope is the same in both directions:
// {"type": "<name>", "data": ...} with data an object, or an array for the
// three sequence-bearing server frames.
const (
	FrameGetHistory     = "getHistory"
	FrameHistoryChunk   = "historyChunk"
	FrameSendMessage    = "sendMessage"
	FrameReceiveMessage = "receiveMessage"
	FrameEditMessage    = "editMessage"
	FrameMessageUpdated = "messageUpdated"
	FrameDeleteMessage  = "deleteMessage"
	FrameMessageDeleted = "messageDeleted"
	FrameJumpToMessage  = "jumpToMessage"
	FrameLoadJump       = "loadJumpMessages"
	FrameJumpError      = "jumpError"
	FrameSession        = "session"
)

type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ---- inbound payloads ----

// HistoryReq: Cursor 0 stands for the absent/null cursor.
type HistoryReq struct {
	Cursor int64 `json:"cursor"`
}

type SendReq struct {
	Text       string `json:"text"`
	Type       string `json:"type"`
	ResponseTo int64  `json:"responseTo"`
}

type EditReq struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type DeleteReq struct {
	ID int64 `json:"id"`
}

type JumpReq struct {
	ID int64 `json:"id"`
}

// ---- outbound payloads ----

type UpdatedEvt struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	IsEdited bool   `json:"isEdited"`
}

type DeletedEvt struct {
	ID int64 `json:"id"`
}

type JumpErrorEvt struct {
	Message string `json:"message"`
}

func ParseFrameJSON(raw []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if frame.Type == "" {
		return nil, fmt.Errorf("frame without type")
	}
	return frame, nil
}

func BuildFrame(ftype string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s data: %w", ftype, err)
	}
	return json.Marshal(Frame{Type: ftype, Data: raw})
}

// DecodePayload decodes an object payload into T via the weakly-typed map
// decoder, so numeric ids arrive as int64 regardless of how the client
// serialized them. A missing or null data object decodes to the zero T.
func DecodePayload[T any](f *Frame) (*T, error) {
	m := map[string]any{}
	if len(f.Data) > 0 && string(f.Data) != "null" {
		if err := json.Unmarshal(f.Data, &m); err != nil {
			return nil, fmt.Errorf("payload of %s not an object: %w", f.Type, err)
		}
	}
	return decode.DecodeMap[T](m)
}
