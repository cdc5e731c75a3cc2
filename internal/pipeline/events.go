package pipeline

import (
	"apexcrm/internal/icons"
	"apexcrm/internal/models"
)

// Event is something the session loop reacts to: a user gesture, a timer
// or the completion of a store call.
type Event interface {
	event()
}

// Load fetches the deal list for the current query.
type Load struct{}

// SearchInput is one keystroke in the search box.
type SearchInput struct {
	Query string
}

type DragStart struct {
	DealID int64
}

type DragCancel struct{}

// Drop releases the dragged deal over a stage column.
type Drop struct {
	Stage models.Stage
}

type OpenForm struct{}

type CloseForm struct{}

type EditDraft struct {
	Field string
	Value string
}

// SubmitForm validates and creates the draft. A non-nil Draft replaces the
// form contents first.
type SubmitForm struct {
	Draft *Draft
}

// DeleteDeal asks for confirmation; the delete runs on a matching
// ConfirmReply.
type DeleteDeal struct {
	DealID int64
}

// ConfirmReply answers a confirm_required prompt. Unknown or expired ids
// are ignored.
type ConfirmReply struct {
	ID  string
	Yes bool
}

type searchDue struct{}

type fetched struct {
	ticket SearchTicket
	result *models.ListResult[models.Deal]
	err    error
}

type moved struct {
	move Move
	deal *models.Deal
	err  error
}

type created struct {
	deal *models.Deal
	err  error
}

type deleted struct {
	deal models.Deal
	err  error
}

func (Load) event()         {}
func (SearchInput) event()  {}
func (DragStart) event()    {}
func (DragCancel) event()   {}
func (Drop) event()         {}
func (OpenForm) event()     {}
func (CloseForm) event()    {}
func (EditDraft) event()    {}
func (SubmitForm) event()   {}
func (DeleteDeal) event()   {}
func (ConfirmReply) event() {}
func (searchDue) event()    {}
func (fetched) event()      {}
func (moved) event()        {}
func (created) event()      {}
func (deleted) event()      {}

// Outbound frame types.
const (
	FrameBoard      = "board"
	FrameToast      = "toast"
	FrameFormErrors = "form_errors"

	FrameConfirmRequired = "confirm_required"
)

// Frame is one message to the client.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ConfirmPrompt is the payload of a confirm_required frame.
type ConfirmPrompt struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

const (
	ToastSuccess = "success"
	ToastInfo    = "info"
	ToastError   = "error"
)

// Toast is a transient user-facing notification.
type Toast struct {
	ID      string      `json:"id"`
	Level   string      `json:"level"`
	Message string      `json:"message"`
	Icon    icons.Asset `json:"icon"`
}
