package domain

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"1299.99", 129999, nil},
		{"99", 9900, nil},
		{"0.5", 50, nil},
		{"1.999", 0, e.ErrPricePrecision},
		{"abc", 0, e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParsePrice(%q) err = %v, want %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if got := FormatPrice(129999); got != "1299.99" {
		t.Errorf("FormatPrice = %q", got)
	}
}

func TestPriceBand_Contains(t *testing.T) {
	if !PriceUnder1000.Contains(99999) || PriceUnder1000.Contains(100000) {
		t.Error("under1000 boundary")
	}
	if !Price1000To2000.Contains(100000) || !Price1000To2000.Contains(200000) {
		t.Error("1000to2000 must be inclusive")
	}
	if PriceOver2000.Contains(200000) || !PriceOver2000.Contains(200001) {
		t.Error("over2000 boundary")
	}
}
