package utils

import (
	"math"
	"testing"
)

func AssertTrue(t *testing.T, a bool) {
	if !a {
		t.Fatalf("Expected true, got false")
	}
}

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	if a != b {
		t.Fatalf("Expected equal: %s != %s\n", a, b)
	}
}

func AssertClose(t *testing.T, a float64, b float64, tolerance float64) {
	if math.Abs(a-b) > tolerance {
		t.Fatalf("Expected close: %v != %v (tolerance %v)\n", a, b, tolerance)
	}
}

// AssertRelClose compares a and b relative to the magnitude of b.
// Falls back to an absolute comparison when b is zero.
func AssertRelClose(t *testing.T, a float64, b float64, tolerance float64) {
	if b == 0 {
		AssertClose(t, a, b, tolerance)
		return
	}
	if math.Abs(a-b)/math.Abs(b) > tolerance {
		t.Fatalf("Expected relatively close: %v != %v (tolerance %v)\n", a, b, tolerance)
	}
}
