package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"large integral amount is paise", 281194, 2811.94},
		{"mid integral amount is paise", 45000, 450.00},
		{"small decimal amount unchanged", 123.45, 123.45},
		{"above always threshold", 2000000, 20000},
		{"above likely threshold with decimals", 75000.50, 750.005},
		{"decimal below likely threshold unchanged", 12000.50, 12000.50},
		{"integral below no-decimal threshold unchanged", 9999, 9999},
		{"exactly no-decimal threshold unchanged", 10000, 10000},
		{"just above no-decimal threshold", 10001, 100.01},
		{"zero unchanged", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeAmount(tt.raw), 1e-9)
		})
	}
}
