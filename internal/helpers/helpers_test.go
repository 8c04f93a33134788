package helpers

import (
	"testing"
)

func TestSplitPrice(t *testing.T) {
	currency, amount, err := SplitPrice("EUR25.55")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if currency != "EUR" {
		t.Errorf("expected currency EUR, got %q", currency)
	}
	if amount != 25.55 {
		t.Errorf("expected amount 25.55, got %v", amount)
	}
}

func TestSplitPriceCurrencies(t *testing.T) {
	for _, tc := range []struct {
		in       string
		currency string
		amount   float64
	}{
		{"USD0.99", "USD", 0.99},
		{"GBP100.00", "GBP", 100.00},
	} {
		currency, amount, err := SplitPrice(tc.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.in, err)
			continue
		}
		if currency != tc.currency || amount != tc.amount {
			t.Errorf("%s: got %q %v", tc.in, currency, amount)
		}
	}
}

func TestSplitPriceRejectsBadFormats(t *testing.T) {
	for _, in := range []string{"", "25.55", "EUR25", "EUR25.5", "JPY25.55", "eur25.55", "EUR-5.00"} {
		if _, _, err := SplitPrice(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestIsAllowedCategory(t *testing.T) {
	if !IsAllowedCategory("sports") {
		t.Error("sports should be allowed")
	}
	if IsAllowedCategory("knitting") {
		t.Error("knitting should not be allowed")
	}
}

func TestStringTrim(t *testing.T) {
	if got := StringTrim("  \"abc\" "); got != "abc" {
		t.Errorf("got %q", got)
	}
}
