package utils

import (
	"fmt"
	"strings"
)

// IdemKey 從事件的固定屬性推導冪等鍵，格式為 TYPE:part:part。
// 重試方必須帶著同一組推導參數重試，才能被帳本吸收成無操作。
func IdemKey(kind string, parts ...interface{}) string {
	b := strings.Builder{}
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteString(fmt.Sprintf(":%v", p))
	}
	return b.String()
}
