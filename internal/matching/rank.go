package matching

import (
	"sort"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
)

// 候補提示の既定値
const (
	DefaultMinScore = 20 // この未満は提示しない
	DefaultLimit    = 20 // 提示する最大件数
)

// Rank 候補をスコア降順に並べ、しきい値未満を除外して上限件数で切り詰める
// 同点はDB取得順 (安定ソート) を維持する。該当なしは空スライスであり
// エラーではない
func Rank(candidates []Candidate, minScore, limit int) []Candidate {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= minScore {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Match 照合パイプライン全体: 絞り込み → スコアリング → ランキング
func Match(req *model.StoreEditRequest, stores []model.Store, minScore, limit int) []Candidate {
	applicant := NewApplicantFields(req)

	filtered := Filter(applicant, stores)
	candidates := make([]Candidate, 0, len(filtered))
	for i := range filtered {
		score, matched := Score(applicant, &filtered[i])
		candidates = append(candidates, Candidate{
			Store:         filtered[i],
			Score:         score,
			MatchedFields: matched,
		})
	}

	return Rank(candidates, minScore, limit)
}
