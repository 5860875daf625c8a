package matching

import (
	"testing"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_SupersetProperty(t *testing.T) {
	// 全フィールド完全一致の店舗は絞り込みで必ず残る
	req := &model.StoreEditRequest{
		StoreName:   "Cafe Sora",
		Address:     "東京都渋谷区道玄坂2-10-7",
		PhoneNumber: "03-1234-5678",
	}
	exact := model.Store{
		ID:          1,
		Name:        "Cafe Sora",
		Address:     "東京都渋谷区道玄坂2-10-7",
		PhoneNumber: "03-1234-5678",
	}
	stores := []model.Store{
		{ID: 10, Name: "鮨処 一心", Address: "大阪府大阪市北区梅田1-1-1", PhoneNumber: "06-9999-0000"},
		exact,
		{ID: 11, Name: "ラーメン ほたる", Address: "福岡県福岡市博多区1-2-3", PhoneNumber: "092-111-2222"},
	}

	candidates := Filter(NewApplicantFields(req), stores)

	found := false
	for _, c := range candidates {
		if c.ID == exact.ID {
			found = true
		}
	}
	assert.True(t, found, "exact match must survive filtering")
}

func TestFilter_MatchesByPhoneAlone(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName:   "全く違う名前",
		PhoneNumber: "03-1234-5678",
	}
	stores := []model.Store{
		{ID: 1, Name: "Cafe Sora", PhoneNumber: "0312345678"},
	}

	candidates := Filter(NewApplicantFields(req), stores)
	require.Len(t, candidates, 1)
	assert.Equal(t, uint(1), candidates[0].ID)
}

func TestFilter_MatchesByAddressToken(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName: "新しい店",
		Address:   "東京都渋谷区道玄坂2-10-7",
	}
	stores := []model.Store{
		{ID: 1, Name: "Cafe Sora", Address: "渋谷区道玄坂2-10-7 ビル3F", PhoneNumber: "03-0000-0000"},
		{ID: 2, Name: "鮨処 一心", Address: "大阪府大阪市北区梅田1-1-1", PhoneNumber: "06-9999-0000"},
	}

	candidates := Filter(NewApplicantFields(req), stores)
	require.Len(t, candidates, 1)
	assert.Equal(t, uint(1), candidates[0].ID)
}

// 仕様シナリオB: どのフィールドも一致しない申請→空の候補リスト (エラーではない)
func TestFilter_NoPlausibleCandidates(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName:   "存在しない店",
		Address:     "北海道札幌市中央区北1条西99-99",
		PhoneNumber: "011-000-0000",
	}
	stores := []model.Store{
		{ID: 1, Name: "Cafe Sora", Address: "東京都渋谷区道玄坂2-10-7", PhoneNumber: "03-1234-5678"},
	}

	candidates := Filter(NewApplicantFields(req), stores)
	assert.Empty(t, candidates)
}

func TestFilter_EmptyStoreList(t *testing.T) {
	req := &model.StoreEditRequest{StoreName: "Cafe Sora"}
	assert.Empty(t, Filter(NewApplicantFields(req), nil))
}
