package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/EGS-Tourist-Guide/event-service/internal/config"
)

// SplitPrice breaks a combined price field like "EUR25.55" into its
// 3-letter currency prefix and numeric remainder.
func SplitPrice(combined string) (currency string, amount float64, err error) {
	if !config.PriceFormatReq.MatchString(combined) {
		return "", 0, fmt.Errorf("price must match <CUR><amount> with a 3-letter currency and two decimals, got %q", combined)
	}
	currency = combined[:3]
	amount, err = strconv.ParseFloat(combined[3:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid price amount in %q: %v", combined, err)
	}
	return currency, amount, nil
}

// IsAllowedCategory reports whether the category is in the configured
// whitelist.
func IsAllowedCategory(category string) bool {
	for _, allowed := range config.AllowedCategories {
		if category == allowed {
			return true
		}
	}
	return false
}

func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

// ErrorResponse is the error envelope every failed request returns.
func ErrorResponse(code int, message, details string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    strconv.Itoa(code),
			"message": message,
			"details": details,
		},
	}
}
