package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFilter(t *testing.T) {
	tests := []struct {
		name      string
		params    ListParams
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filters",
			params:    ListParams{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "search only",
			params:    ListParams{Query: "lamp"},
			wantWhere: " WHERE name ILIKE $1",
			wantArgs:  []any{"%lamp%"},
		},
		{
			name:      "category only",
			params:    ListParams{Category: "decor"},
			wantWhere: " WHERE category = $1",
			wantArgs:  []any{"decor"},
		},
		{
			name:      "search and category",
			params:    ListParams{Query: "lamp", Category: "decor"},
			wantWhere: " WHERE name ILIKE $1 AND category = $2",
			wantArgs:  []any{"%lamp%", "decor"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := listFilter(tt.params)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestListParamsNormalized(t *testing.T) {
	p := ListParams{Page: 0, Limit: -3, Sort: "sideways"}.normalized()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 9, p.Limit)
	assert.Equal(t, "desc", p.Sort)

	p = ListParams{Page: 3, Limit: 20, Sort: "asc"}.normalized()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, "asc", p.Sort)
}

func TestPatchSets(t *testing.T) {
	name := "Desk Lamp"
	stock := 12
	sets, args := patchSets(Patch{Name: &name, Stock: &stock})
	assert.Equal(t, []string{"name = $1", "stock = $2"}, sets)
	assert.Equal(t, []any{"Desk Lamp", 12}, args)

	sets, args = patchSets(Patch{})
	assert.Empty(t, sets)
	assert.Empty(t, args)
}
