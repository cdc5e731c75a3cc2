package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apexcrm/internal/models"
	"apexcrm/internal/pipeline"
)

func TestInboundEvent(t *testing.T) {
	draft := pipeline.Draft{Title: "Renewal"}
	tests := []struct {
		raw  string
		want pipeline.Event
	}{
		{`{"type":"load"}`, pipeline.Load{}},
		{`{"type":"search","query":"acme"}`, pipeline.SearchInput{Query: "acme"}},
		{`{"type":"drag_start","deal_id":7}`, pipeline.DragStart{DealID: 7}},
		{`{"type":"drag_cancel"}`, pipeline.DragCancel{}},
		{`{"type":"drop","stage":"proposal"}`, pipeline.Drop{Stage: models.StageProposal}},
		{`{"type":"open_form"}`, pipeline.OpenForm{}},
		{`{"type":"close_form"}`, pipeline.CloseForm{}},
		{`{"type":"edit","field":"title","value":"x"}`, pipeline.EditDraft{Field: "title", Value: "x"}},
		{`{"type":"create"}`, pipeline.SubmitForm{}},
		{`{"type":"create","draft":{"title":"Renewal"}}`, pipeline.SubmitForm{Draft: &draft}},
		{`{"type":"delete","deal_id":3}`, pipeline.DeleteDeal{DealID: 3}},
		{`{"type":"confirm","id":"abc","confirmed":true}`, pipeline.ConfirmReply{ID: "abc", Yes: true}},
		{`{"type":"confirm","id":"abc"}`, pipeline.ConfirmReply{ID: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			in, err := DecodeInbound([]byte(tt.raw))
			require.NoError(t, err)
			ev, err := in.Event()
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestInboundErrors(t *testing.T) {
	_, err := DecodeInbound([]byte(`{not json`))
	assert.Error(t, err)

	in, err := DecodeInbound([]byte(`{"type":"explode"}`))
	require.NoError(t, err)
	_, err = in.Event()
	assert.ErrorIs(t, err, ErrUnknownMessage)
}
