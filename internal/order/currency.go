package order

import (
	"strconv"
	"strings"
)

// CurrencySuffix is appended to every formatted amount
const CurrencySuffix = " ₲"

// FormatGuarani renders an integer amount with "." thousands grouping, e.g. 88000 -> "88.000 ₲"
func FormatGuarani(amount int64) string {
	return groupThousands(amount) + CurrencySuffix
}

func groupThousands(amount int64) string {
	sign := ""
	digits := strconv.FormatInt(amount, 10)
	if amount < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
