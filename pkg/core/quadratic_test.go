package core

import (
	"math"
	"testing"
)

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c    float64
		expectOK   bool
		expectedT0 float64
		expectedT1 float64
	}{
		{"two roots", 1, -3, 2, true, 1, 2},
		{"double root", 1, -2, 1, true, 1, 1},
		{"no real roots", 1, 0, 1, false, 0, 0},
		{"scaled leading coefficient", 4, -12, 8, true, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := SolveQuadratic(tt.a, tt.b, tt.c)
			if ok != tt.expectOK {
				t.Fatalf("Expected ok=%t, got %t", tt.expectOK, ok)
			}
			if !ok {
				return
			}
			if math.Abs(t0-tt.expectedT0) > tolerance || math.Abs(t1-tt.expectedT1) > tolerance {
				t.Errorf("Expected roots (%f, %f), got (%f, %f)", tt.expectedT0, tt.expectedT1, t0, t1)
			}
		})
	}
}

func TestSmallestPositive(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected float64
		expectOK bool
	}{
		{"both negative", -1, -2, 0, false},
		{"first negative", -1, 3, 3, true},
		{"second negative", 2, -5, 2, true},
		{"both positive", 4, 1.5, 1.5, true},
		{"zero is not positive", 0, -1, 0, false},
		{"zero and positive", 0, 2, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SmallestPositive(tt.a, tt.b)
			if ok != tt.expectOK || got != tt.expected {
				t.Errorf("Expected (%f, %t), got (%f, %t)", tt.expected, tt.expectOK, got, ok)
			}
		})
	}
}
