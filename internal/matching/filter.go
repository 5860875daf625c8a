package matching

import (
	"strings"

	"github.com/stakahashi/machinavi-backend/internal/app/model"
)

// ApplicantFields 申請から抽出した照合対象フィールド (正規化済み)
type ApplicantFields struct {
	Name    string
	Address string
	Phone   string
	Genre   string

	addressTokens []string
}

// NewApplicantFields 申請レコードから照合用フィールドを作る
func NewApplicantFields(req *model.StoreEditRequest) ApplicantFields {
	return ApplicantFields{
		Name:          Normalize(req.StoreName),
		Address:       Normalize(req.Address),
		Phone:         NormalizePhone(req.PhoneNumber),
		Genre:         Normalize(req.GenreName),
		addressTokens: AddressTokens(req.Address),
	}
}

// Filter 全店舗から照合候補を絞り込む
// 電話番号の一致、住所トークンの重なり、正規化後の店舗名の完全一致の
// いずれかを満たす店舗を残す。取りこぼしは欠陥、取り過ぎは許容
func Filter(applicant ApplicantFields, stores []model.Store) []model.Store {
	candidates := make([]model.Store, 0, len(stores))
	for _, store := range stores {
		if isPlausible(applicant, &store) {
			candidates = append(candidates, store)
		}
	}
	return candidates
}

func isPlausible(applicant ApplicantFields, store *model.Store) bool {
	if applicant.Phone != "" && applicant.Phone == NormalizePhone(store.PhoneNumber) {
		return true
	}

	if applicant.Name != "" && applicant.Name == Normalize(store.Name) {
		return true
	}

	if applicant.Address != "" {
		storeAddress := Normalize(store.Address)
		if storeAddress != "" {
			for _, token := range applicant.addressTokens {
				if strings.Contains(storeAddress, token) {
					return true
				}
			}
			for _, token := range AddressTokens(store.Address) {
				if strings.Contains(applicant.Address, token) {
					return true
				}
			}
		}
	}

	return false
}
