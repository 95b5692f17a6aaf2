package services

import (
	"fmt"
	"strconv"
	"time"
)

// FormatYen renders an integer yen amount as "¥1,234".
func FormatYen(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "¥" + groupDigits(strconv.Itoa(amount))
}

// groupDigits inserts a comma every three digits from the right.
func groupDigits(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var out []byte
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return string(out)
}

// FormatDateJP renders an ISO date as "2026年8月28日". Unparseable input
// is returned as-is.
func FormatDateJP(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}
