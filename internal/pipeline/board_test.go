package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apexcrm/internal/models"
)

func newLoadedBoard(deals ...models.Deal) *Board {
	b := NewBoard(today)
	b.Replace(deals)
	return b
}

func TestBoardDropWithoutDragIsNoop(t *testing.T) {
	b := newLoadedBoard(sampleDeals()...)
	_, ok := b.Drop(models.StageClosed)
	assert.False(t, ok)
}

func TestBoardDropMissingDeal(t *testing.T) {
	b := newLoadedBoard(sampleDeals()...)
	b.StartDrag(99)
	_, ok := b.Drop(models.StageClosed)
	assert.False(t, ok)
	_, dragging := b.Dragging()
	assert.False(t, dragging, "drag cleared even when the deal is gone")
}

func TestBoardDropUnknownStage(t *testing.T) {
	b := newLoadedBoard(sampleDeals()...)
	b.StartDrag(1)
	_, ok := b.Drop("archived")
	assert.False(t, ok)
	assert.False(t, b.Pending(1))
}

func TestBoardDropKeepsVisibleStateUntilCommit(t *testing.T) {
	b := newLoadedBoard(models.Deal{ID: 1, Title: "A", Stage: models.StageLead, Value: 1000, Probability: 20})
	b.StartDrag(1)

	m, ok := b.Drop(models.StageProposal)
	require.True(t, ok)
	assert.Equal(t, models.StageProposal, m.To.Stage)
	assert.Equal(t, 60, m.To.Probability)
	assert.True(t, b.Pending(1))
	_, dragging := b.Dragging()
	assert.False(t, dragging)

	d, _ := b.Find(1)
	assert.Equal(t, models.StageLead, d.Stage, "not applied before commit")

	require.True(t, b.Commit(m, m.To))
	assert.False(t, b.Pending(1))
	d, _ = b.Find(1)
	assert.Equal(t, models.StageProposal, d.Stage)
	assert.Equal(t, 60, d.Probability)
	assert.Equal(t, 1000.0, StageTotal(b.Deals(), models.StageProposal))
	assert.Zero(t, StageTotal(b.Deals(), models.StageLead))
}

func TestBoardRollback(t *testing.T) {
	b := newLoadedBoard(models.Deal{ID: 1, Stage: models.StageLead, Probability: 20})
	b.StartDrag(1)
	m, ok := b.Drop(models.StageClosed)
	require.True(t, ok)

	b.Rollback(m)
	assert.False(t, b.Pending(1))
	d, _ := b.Find(1)
	assert.Equal(t, models.StageLead, d.Stage)
	assert.Equal(t, 20, d.Probability)
}

func TestBoardOlderResponseAfterNewerCommitIgnored(t *testing.T) {
	b := newLoadedBoard(models.Deal{ID: 1, Stage: models.StageLead, Probability: 20})
	b.StartDrag(1)
	first, _ := b.Drop(models.StageQualified)
	b.StartDrag(1)
	second, _ := b.Drop(models.StageNegotiation)

	assert.True(t, b.Commit(second, second.To))
	assert.False(t, b.Commit(first, first.To))
	d, _ := b.Find(1)
	assert.Equal(t, models.StageNegotiation, d.Stage)
}

func TestBoardOlderSuccessRebasesPendingMove(t *testing.T) {
	b := newLoadedBoard(models.Deal{ID: 1, Stage: models.StageLead, Probability: 20})
	b.StartDrag(1)
	first, _ := b.Drop(models.StageProposal)
	b.StartDrag(1)
	second, _ := b.Drop(models.StageNegotiation)

	require.True(t, b.Commit(first, first.To))
	assert.True(t, b.Pending(1), "newer move still in flight")
	b.Rollback(second)

	assert.False(t, b.Pending(1))
	d, _ := b.Find(1)
	assert.Equal(t, models.StageProposal, d.Stage)
	assert.Equal(t, 60, d.Probability)
}

func TestBoardOlderSuccessAfterNewerFailure(t *testing.T) {
	b := newLoadedBoard(models.Deal{ID: 1, Stage: models.StageLead, Probability: 20})
	b.StartDrag(1)
	first, _ := b.Drop(models.StageProposal)
	b.StartDrag(1)
	second, _ := b.Drop(models.StageNegotiation)

	b.Rollback(second)
	require.True(t, b.Commit(first, first.To))
	d, _ := b.Find(1)
	assert.Equal(t, models.StageProposal, d.Stage)
	assert.False(t, b.Pending(1))
}

func TestBoardSearchGenerations(t *testing.T) {
	b := newLoadedBoard()
	b.SetQuery("a")
	older := b.IssueSearch()
	b.SetQuery("ac")
	newer := b.IssueSearch()

	assert.True(t, b.ApplySearch(newer, []models.Deal{{ID: 2}}))
	assert.False(t, b.ApplySearch(older, []models.Deal{{ID: 1}}), "late response for an older query")
	require.Len(t, b.Deals(), 1)
	assert.Equal(t, int64(2), b.Deals()[0].ID)
}

func TestBoardRemove(t *testing.T) {
	b := newLoadedBoard(sampleDeals()...)
	assert.True(t, b.Remove(3))
	assert.False(t, b.Remove(3))
	assert.Len(t, b.Deals(), 5)
}

func TestBoardFormFlow(t *testing.T) {
	b := NewBoard(today)
	b.OpenForm()
	b.EditDraft("value", "abc")

	_, ok := b.SubmitDraft()
	require.False(t, ok)
	assert.Contains(t, b.FormErrors(), "value")
	assert.True(t, b.FormOpen())

	b.EditDraft("value", "10")
	assert.NotContains(t, b.FormErrors(), "value", "editing clears the field error")

	b.SetDraft(validDraft())
	deal, ok := b.SubmitDraft()
	require.True(t, ok)
	assert.Equal(t, "Cloud Migration", deal.Title)

	b.ResetForm(today)
	assert.False(t, b.FormOpen())
	assert.Equal(t, NewDraft(today), b.Draft())
}

func TestBoardSnapshot(t *testing.T) {
	b := newLoadedBoard(sampleDeals()...)
	b.SetQuery("acme")
	b.StartDrag(2)

	snap := b.Snapshot()
	require.Len(t, snap.Columns, 5)
	require.Len(t, snap.Columns[0].Cards, 2)
	assert.Equal(t, "building", snap.Columns[0].Cards[0].Icon)
	assert.Empty(t, snap.Columns[1].Cards)
	assert.Equal(t, 28500.0, snap.Columns[1].Total)
	require.NotNil(t, snap.Dragging)
	assert.Equal(t, int64(2), *snap.Dragging)
	assert.Equal(t, 309500.0, snap.TotalValue)
}
