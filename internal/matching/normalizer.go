package matching

import (
	"strings"

	"golang.org/x/text/width"
)

// Normalize 比較用にフィールド値を正規化する
// 前後空白の除去、全角→半角折り畳み、小文字化、書式文字 (空白・ハイフン・
// 括弧・ドット) の除去を行う。冪等であり、空文字は空文字のまま返す
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// 全角英数・記号・半角カナを半角/標準形へ折り畳む
	s = width.Fold.String(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '　', '\t', '-', '‐', '―', 'ー', '−', '(', ')', '.', '/':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizePhone 電話番号を数字のみに正規化する
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range width.Fold.String(s) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AddressTokens 住所を比較用トークンに分割する
// 正規化後、数字と非数字の境界で区切り、2文字以上のトークンのみ返す
func AddressTokens(address string) []string {
	normalized := Normalize(address)
	if normalized == "" {
		return nil
	}

	var tokens []string
	var current []rune
	var currentDigit bool

	flush := func() {
		if len(current) >= 2 {
			tokens = append(tokens, string(current))
		}
		current = current[:0]
	}

	for _, r := range normalized {
		isDigit := r >= '0' && r <= '9'
		if len(current) > 0 && isDigit != currentDigit {
			flush()
		}
		current = append(current, r)
		currentDigit = isDigit
	}
	flush()

	return tokens
}
