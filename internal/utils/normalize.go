package utils

import (
	"regexp"
	"strings"
)

// 比對答案時只保留英文小寫、數字與韓文字，其餘字元一律去掉
var normalizePattern = regexp.MustCompile(`[^a-z0-9가-힣]`)

// NormalizeText 把猜題文字折疊成可比對的形式。
// 純函數：相同輸入永遠得到相同輸出，謎底與猜測都用同一條規則處理。
func NormalizeText(text string) string {
	return normalizePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
}
