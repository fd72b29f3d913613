package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// amountValue はJSONの数値と文字列の両方を受け付ける金額型。
// クライアントは "45.00" のような文字列で金額を送ることがある。
type amountValue float64

// UnmarshalJSON は数値または数値文字列をfloat64として解釈する。
// 解釈できない値やNaN/Infはエラーになる。
func (a *amountValue) UnmarshalJSON(data []byte) error {
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid amount %q", s)
	}

	*a = amountValue(f)
	return nil
}
