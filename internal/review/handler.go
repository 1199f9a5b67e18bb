package review

import (
	"context"
	"encoding/json"
	"time"
)

// requestTimeout bounds the side effects of one queued review.
const requestTimeout = 10 * time.Second

type errorReply struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

// HandleCheckRequest decodes a JSON Message, reviews it and returns the JSON
// Outcome. Malformed or invalid requests get an {"error": ...} reply.
func (s *Service) HandleCheckRequest(data []byte) []byte {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return encodeReply(errorReply{Error: "malformed request: " + err.Error()})
	}
	if err := ValidateMessage(m); err != nil {
		return encodeReply(errorReply{RequestID: m.RequestID, Error: err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return encodeReply(s.Review(ctx, m))
}

func encodeReply(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return data
}
