package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"apexcrm/internal/models"
	"apexcrm/internal/pipeline"
)

// Inbound message types sent by the board client.
const (
	MsgLoad       = "load"
	MsgSearch     = "search"
	MsgDragStart  = "drag_start"
	MsgDragCancel = "drag_cancel"
	MsgDrop       = "drop"
	MsgOpenForm   = "open_form"
	MsgCloseForm  = "close_form"
	MsgEdit       = "edit"
	MsgCreate     = "create"
	MsgDelete     = "delete"
	MsgConfirm    = "confirm"
)

// FrameError is added by the transport on top of the session's own frames.
const FrameError = "error"

var ErrUnknownMessage = errors.New("unknown message type")

// Inbound is the envelope of every client message. Only the fields that
// belong to Type are read.
type Inbound struct {
	Type      string          `json:"type"`
	Query     string          `json:"query,omitempty"`
	DealID    int64           `json:"deal_id,omitempty"`
	Stage     models.Stage    `json:"stage,omitempty"`
	Field     string          `json:"field,omitempty"`
	Value     string          `json:"value,omitempty"`
	Draft     *pipeline.Draft `json:"draft,omitempty"`
	ID        string          `json:"id,omitempty"`
	Confirmed bool            `json:"confirmed,omitempty"`
}

type outbound struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, fmt.Errorf("decode message: %w", err)
	}
	return in, nil
}

// Event maps a client message to a session event. A confirm_required
// prompt is answered with {"type":"confirm","id":<ID>,"confirmed":bool}.
func (in Inbound) Event() (pipeline.Event, error) {
	switch in.Type {
	case MsgLoad:
		return pipeline.Load{}, nil
	case MsgSearch:
		return pipeline.SearchInput{Query: in.Query}, nil
	case MsgDragStart:
		return pipeline.DragStart{DealID: in.DealID}, nil
	case MsgDragCancel:
		return pipeline.DragCancel{}, nil
	case MsgDrop:
		return pipeline.Drop{Stage: in.Stage}, nil
	case MsgOpenForm:
		return pipeline.OpenForm{}, nil
	case MsgCloseForm:
		return pipeline.CloseForm{}, nil
	case MsgEdit:
		return pipeline.EditDraft{Field: in.Field, Value: in.Value}, nil
	case MsgCreate:
		return pipeline.SubmitForm{Draft: in.Draft}, nil
	case MsgDelete:
		return pipeline.DeleteDeal{DealID: in.DealID}, nil
	case MsgConfirm:
		return pipeline.ConfirmReply{ID: in.ID, Yes: in.Confirmed}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, in.Type)
}
