package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Wire format shared with the intake producers and the finance consumer.
// The payload stays raw until the msg_type is known.

const MsgTypeRFQRequest = "rfq_request"

type Envelope struct {
	MessageID string          `json:"message_id"`
	MsgType   string          `json:"msg_type"`
	DepotID   string          `json:"depot_id"`
	SentAt    time.Time       `json:"sent_at"`
	Payload   json.RawMessage `json:"payload"`
}

// RFQRequest is the intake payload a client system posts to request a
// haul.
type RFQRequest struct {
	RFQRef         string  `json:"rfq_ref"`
	Client         string  `json:"client"`
	Commodity      string  `json:"commodity"`
	RequiresHazmat bool    `json:"requires_hazmat"`
	Tons           float64 `json:"tons"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Corridor       string  `json:"corridor"`
}

// DecodeRFQ unwraps a frame from the intake topic. Frames that are not
// rfq_request envelopes are an error; the caller decides whether to drop
// or dead-letter.
func DecodeRFQ(data []byte) (*RFQRequest, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("intake frame: %w", err)
	}
	if env.MsgType != MsgTypeRFQRequest {
		return nil, fmt.Errorf("intake frame: unexpected msg_type %q", env.MsgType)
	}
	var req RFQRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return nil, fmt.Errorf("rfq payload: %w", err)
	}
	return &req, nil
}

// NewRFQEnvelope wraps an RFQ request for the intake topic. Used by the
// simulator and by tests; production traffic arrives from client systems.
func NewRFQEnvelope(depotID string, req *RFQRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		MessageID: uuid.NewString(),
		MsgType:   MsgTypeRFQRequest,
		DepotID:   depotID,
		SentAt:    time.Now().UTC(),
		Payload:   payload,
	})
}
