package matching

import (
	"testing"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func applicantFrom(req *model.StoreEditRequest) ApplicantFields {
	return NewApplicantFields(req)
}

func TestScore_Range(t *testing.T) {
	tests := []struct {
		name  string
		req   *model.StoreEditRequest
		store model.Store
	}{
		{
			name: "All fields match",
			req: &model.StoreEditRequest{
				StoreName:   "Cafe Sora",
				Address:     "東京都渋谷区道玄坂2-10-7",
				PhoneNumber: "03-1234-5678",
			},
			store: model.Store{
				Name:        "Cafe Sora",
				Address:     "東京都渋谷区道玄坂2-10-7",
				PhoneNumber: "0312345678",
			},
		},
		{
			name: "Nothing matches",
			req: &model.StoreEditRequest{
				StoreName:   "Cafe Sora",
				Address:     "東京都渋谷区道玄坂2-10-7",
				PhoneNumber: "03-1234-5678",
			},
			store: model.Store{
				Name:        "ラーメン ほたる",
				Address:     "大阪府大阪市北区梅田1-1-1",
				PhoneNumber: "06-9999-0000",
			},
		},
		{
			name: "Candidate with no fields at all",
			req: &model.StoreEditRequest{
				StoreName: "Cafe Sora",
			},
			store: model.Store{},
		},
		{
			name:  "Applicant with no fields at all",
			req:   &model.StoreEditRequest{},
			store: model.Store{Name: "Cafe Sora"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := Score(applicantFrom(tt.req), &tt.store)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		})
	}
}

func TestScore_FullMatchIs100(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName:   "居酒屋 ほたる",
		Address:     "東京都新宿区歌舞伎町1-2-3",
		PhoneNumber: "03-5555-1234",
		GenreName:   "居酒屋",
	}
	store := model.Store{
		Name:        "居酒屋ほたる",
		Address:     "東京都新宿区歌舞伎町1−2−3",
		PhoneNumber: "0355551234",
		Genre:       &model.Genre{Name: "居酒屋"},
	}

	score, matched := Score(applicantFrom(req), &store)
	assert.Equal(t, 100, score)
	assert.ElementsMatch(t, []string{"name", "address", "phone", "genre"}, matched)
}

func TestScore_NoMatchIsZero(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName:   "Cafe Sora",
		PhoneNumber: "03-1234-5678",
	}
	store := model.Store{
		Name:        "鮨処 一心",
		PhoneNumber: "06-9999-0000",
	}

	score, matched := Score(applicantFrom(req), &store)
	assert.Equal(t, 0, score)
	assert.Empty(t, matched)
}

// 仕様シナリオA: 名前と電話だけ提出された申請が正規化後に両方一致→100
func TestScore_NameAndPhoneOnly(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName:   "Cafe Sora",
		PhoneNumber: "03-1234-5678",
	}
	store := model.Store{
		Name:        "Cafe Sora",
		PhoneNumber: "0312345678",
	}

	score, matched := Score(applicantFrom(req), &store)
	assert.Equal(t, 100, score)
	assert.ElementsMatch(t, []string{"name", "phone"}, matched)
}

func TestScore_PartialCredit(t *testing.T) {
	req := &model.StoreEditRequest{
		StoreName: "Cafe Sora 渋谷店",
	}
	store := model.Store{
		Name: "Cafe Sora",
	}

	score, matched := Score(applicantFrom(req), &store)
	assert.Equal(t, 50, score)
	assert.Contains(t, matched, "name (partial)")
}

func TestScore_EmptyCandidateFieldNoCredit(t *testing.T) {
	// 申請に住所があり候補に住所がない場合、住所の配点は獲得できない
	req := &model.StoreEditRequest{
		StoreName: "Cafe Sora",
		Address:   "東京都渋谷区道玄坂2-10-7",
	}
	store := model.Store{
		Name: "Cafe Sora",
	}

	score, matched := Score(applicantFrom(req), &store)
	assert.Equal(t, 50, score)
	assert.Equal(t, []string{"name"}, matched)
}
