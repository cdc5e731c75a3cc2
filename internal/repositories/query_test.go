package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"apexcrm/internal/models"
)

func TestWhere_EmptyHasNoClause(t *testing.T) {
	w := &where{}
	assert.Equal(t, "", w.sql())
	limit, args := w.paging(10, 20)
	assert.Equal(t, " LIMIT $1 OFFSET $2", limit)
	assert.Equal(t, []interface{}{10, 20}, args)

	limit, args = w.paging(0, 5)
	assert.Equal(t, " OFFSET $1", limit)
	assert.Equal(t, []interface{}{5}, args)
}

func TestDealWhere_NumbersPlaceholdersInOrder(t *testing.T) {
	w := dealWhere(models.DealFilter{Search: "acme", Stage: models.StageProposal, Type: models.DealTypeCompany})
	assert.Equal(t,
		" WHERE (title ILIKE $1 OR customer ILIKE $1 OR contact ILIKE $1) AND stage = $2 AND type = $3",
		w.sql())
	assert.Equal(t, []interface{}{"%acme%", models.StageProposal, models.DealTypeCompany}, w.args)

	limit, args := w.paging(5, 0)
	assert.Equal(t, " LIMIT $4 OFFSET $5", limit)
	assert.Len(t, args, 5)
	assert.Len(t, w.args, 3, "paging must not grow the filter args")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off`, escapeLike(" 50%_off "))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
