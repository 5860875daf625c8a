package matching

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
)

// フィールド別の配点。名称・住所・電話を同率とし、ジャンルは補助扱い。
// スコアは申請側に値があるフィールドの配点合計に対する獲得率を0-100に
// 換算したもの。全フィールド完全一致なら必ず100になる
const (
	weightName    = 30
	weightAddress = 30
	weightPhone   = 30
	weightGenre   = 10
)

// Candidate 申請と既存店舗の照合結果 (一時データ、永続化しない)
type Candidate struct {
	Store         model.Store `json:"store"`
	Score         int         `json:"score"`          // 0-100
	MatchedFields []string    `json:"matched_fields"` // 一致したフィールドの説明
}

// Score 申請フィールドと候補店舗を比較してスコアと一致内訳を返す
// 正規化後の完全一致は満点、部分一致 (包含またはファジー一致) は半分の
// 配点。候補側のフィールドがすべて空でもスコア0を返すだけでエラーに
// しない
func Score(applicant ApplicantFields, store *model.Store) (int, []string) {
	earned := 0
	possible := 0
	var matched []string

	genreName := ""
	if store.Genre != nil {
		genreName = store.Genre.Name
	}

	fields := []struct {
		label     string
		weight    int
		applicant string
		candidate string
	}{
		{"name", weightName, applicant.Name, Normalize(store.Name)},
		{"address", weightAddress, applicant.Address, Normalize(store.Address)},
		{"phone", weightPhone, applicant.Phone, NormalizePhone(store.PhoneNumber)},
		{"genre", weightGenre, applicant.Genre, Normalize(genreName)},
	}

	for _, f := range fields {
		if f.applicant == "" {
			continue
		}
		possible += f.weight

		level := matchNone
		if f.label == "phone" {
			// 電話番号は部分一致を認めない
			if f.applicant == f.candidate {
				level = matchExact
			}
		} else {
			level = compareField(f.applicant, f.candidate)
		}

		switch level {
		case matchExact:
			earned += f.weight
			matched = append(matched, f.label)
		case matchPartial:
			earned += f.weight / 2
			matched = append(matched, f.label+" (partial)")
		}
	}

	if possible == 0 {
		return 0, nil
	}
	return earned * 100 / possible, matched
}

type matchLevel int

const (
	matchNone matchLevel = iota
	matchPartial
	matchExact
)

func compareField(a, b string) matchLevel {
	if a == "" || b == "" {
		return matchNone
	}
	if a == b {
		return matchExact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return matchPartial
	}
	if fuzzy.MatchNormalizedFold(a, b) || fuzzy.MatchNormalizedFold(b, a) {
		return matchPartial
	}
	return matchNone
}
