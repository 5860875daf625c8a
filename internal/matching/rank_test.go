package matching

import (
	"testing"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_SortsByScoreDescending(t *testing.T) {
	candidates := []Candidate{
		{Store: model.Store{ID: 1}, Score: 40},
		{Store: model.Store{ID: 2}, Score: 100},
		{Store: model.Store{ID: 3}, Score: 70},
	}

	ranked := Rank(candidates, DefaultMinScore, DefaultLimit)
	require.Len(t, ranked, 3)
	assert.Equal(t, uint(2), ranked[0].Store.ID)
	assert.Equal(t, uint(3), ranked[1].Store.ID)
	assert.Equal(t, uint(1), ranked[2].Store.ID)
}

func TestRank_TiesKeepOriginalOrder(t *testing.T) {
	candidates := []Candidate{
		{Store: model.Store{ID: 1}, Score: 60},
		{Store: model.Store{ID: 2}, Score: 60},
		{Store: model.Store{ID: 3}, Score: 60},
	}

	ranked := Rank(candidates, DefaultMinScore, DefaultLimit)
	require.Len(t, ranked, 3)
	assert.Equal(t, uint(1), ranked[0].Store.ID)
	assert.Equal(t, uint(2), ranked[1].Store.ID)
	assert.Equal(t, uint(3), ranked[2].Store.ID)
}

func TestRank_DropsBelowThreshold(t *testing.T) {
	candidates := []Candidate{
		{Store: model.Store{ID: 1}, Score: 10},
		{Store: model.Store{ID: 2}, Score: 50},
		{Store: model.Store{ID: 3}, Score: 19},
	}

	ranked := Rank(candidates, DefaultMinScore, DefaultLimit)
	require.Len(t, ranked, 1)
	assert.Equal(t, uint(2), ranked[0].Store.ID)
}

func TestRank_CapsResultCount(t *testing.T) {
	var candidates []Candidate
	for i := 1; i <= 30; i++ {
		candidates = append(candidates, Candidate{Store: model.Store{ID: uint(i)}, Score: 50})
	}

	ranked := Rank(candidates, DefaultMinScore, 5)
	assert.Len(t, ranked, 5)
}

func TestRank_EmptyInput(t *testing.T) {
	ranked := Rank(nil, DefaultMinScore, DefaultLimit)
	assert.Empty(t, ranked)
}

func TestMatch_EndToEnd(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName:   "Cafe Sora",
		PhoneNumber: "03-1234-5678",
	}
	stores := []model.Store{
		{ID: 1, Name: "鮨処 一心", PhoneNumber: "06-9999-0000"},
		{ID: 2, Name: "Cafe Sora", PhoneNumber: "0312345678"},
	}

	candidates := Match(req, stores, 0, 0)
	require.Len(t, candidates, 1)
	assert.Equal(t, uint(2), candidates[0].Store.ID)
	assert.Equal(t, 100, candidates[0].Score)
	assert.ElementsMatch(t, []string{"name", "phone"}, candidates[0].MatchedFields)
}
