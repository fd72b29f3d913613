// Package report は支出リストに対する純粋な集計関数を提供する。
// 入力を変更せず、外部状態に依存しない。
package report

import (
	"sort"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// Total は集計キーとその合計金額。
type Total struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// CategoryTotals はカテゴリごとの合計金額を降順で返す。
// 合計が同額のカテゴリは入力での初出順を保つ。
func CategoryTotals(expenses []model.Expense) []Total {
	return totalsBy(expenses, func(e model.Expense) (string, bool) {
		return e.Category, true
	})
}

// VendorTotals は支払先ごとの合計金額を降順で返す。
// 合計が同額の支払先は入力での初出順を保つ。
func VendorTotals(expenses []model.Expense) []Total {
	return totalsBy(expenses, func(e model.Expense) (string, bool) {
		return e.Vendor, true
	})
}

// PeriodTotals は年月（YYYY-MM）ごとの合計金額を返す。
// 結果は期間の新しい順（辞書順降順）でソートする。
// 日付はYYYY-MM-DD、次にRFC3339として解釈し、どちらでも解釈できない支出は
// 集計から除外する。
func PeriodTotals(expenses []model.Expense) []Total {
	totals := totalsBy(expenses, func(e model.Expense) (string, bool) {
		d, err := parseExpenseDate(e.Date)
		if err != nil {
			return "", false
		}
		return d.Format("2006-01"), true
	})

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Key > totals[j].Key
	})
	return totals
}

// parseExpenseDate は支出の日付文字列を解釈する。
// YYYY-MM-DDを優先し、タイムスタンプ付きで保存された日付のためにRFC3339にも対応する。
func parseExpenseDate(date string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, date)
}

// totalsBy はキー抽出関数で支出をグループ化し、合計金額の降順で返す。
// キー抽出関数がfalseを返した支出は除外する。
func totalsBy(expenses []model.Expense, keyFn func(model.Expense) (string, bool)) []Total {
	sums := make(map[string]float64)
	var order []string

	for _, e := range expenses {
		key, ok := keyFn(e)
		if !ok {
			continue
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += e.Amount
	}

	totals := make([]Total, 0, len(order))
	for _, key := range order {
		totals = append(totals, Total{Key: key, Total: sums[key]})
	}

	// 初出順を保ったまま合計降順に並べ替える
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}
