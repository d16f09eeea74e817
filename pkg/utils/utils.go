package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotANumber возвращается, если в тексте нет суммы
var ErrNotANumber = errors.New("not a numeric amount")

var currencyStripper = strings.NewReplacer(
	"₹", "",
	"Rs.", "",
	"Rs", "",
	"INR", "",
	",", "",
	" ", "",
	"\u00a0", "",
	"\t", "",
	"\n", "",
)

// Round округляет до целой денежной единицы, половина - от нуля
func Round(value float64) float64 {
	return math.Round(value)
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// ParseCurrency превращает текст вида "₹ 12,39,900" в число
func ParseCurrency(text string) (float64, error) {
	cleaned := currencyStripper.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0, fmt.Errorf("parse %q: %w", text, ErrNotANumber)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, ErrNotANumber)
	}
	return d.InexactFloat64(), nil
}

// FormatINR форматирует сумму с индийской группировкой разрядов: ₹12,34,567
// NaN и бесконечности выводятся как "₹NaN", "₹Inf" и "-₹Inf".
func FormatINR(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "₹NaN"
	case math.IsInf(amount, 1):
		return "₹Inf"
	case math.IsInf(amount, -1):
		return "-₹Inf"
	}

	d := decimal.NewFromFloat(amount).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	digits := d.String()
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}
