package recipe

import (
	"strings"
	"unicode"
)

// NormalizeText 把多段文字收斂成可搜尋的標準形態：
// 各段去除前後空白、以單一空格串接，剔除字母/數字/空格以外的字元後轉小寫。
// 食譜的搜尋鍵（名稱＋食材名）與使用者的查詢字串都走同一條路，
// 比對因此不受大小寫與標點影響。
func NormalizeText(parts ...string) string {
	trimmed := make([]string, len(parts))
	for i, p := range parts {
		trimmed[i] = strings.TrimSpace(p)
	}

	joined := strings.Join(trimmed, " ")

	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	return strings.ToLower(b.String())
}

// searchKey 食譜的可搜尋文字：名稱加上所有食材名稱
func searchKey(doc *StoredRecipe) string {
	parts := make([]string, 0, len(doc.Ingredients)+1)
	parts = append(parts, doc.Name)
	for _, ing := range doc.Ingredients {
		parts = append(parts, ing.Name)
	}
	return NormalizeText(parts...)
}
