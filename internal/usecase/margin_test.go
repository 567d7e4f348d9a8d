package usecase

import (
	"math"
	"testing"
)

func TestResolveSampleMarginTiers(t *testing.T) {
	override := 25.0
	system := 50.0

	if got := ResolveSampleMargin(&override, &system); got != override {
		t.Fatalf("client override must win, got %v", got)
	}
	if got := ResolveSampleMargin(nil, &system); got != system {
		t.Fatalf("system default must apply, got %v", got)
	}
	if got := ResolveSampleMargin(nil, nil); got != DefaultSampleMarginPercent {
		t.Fatalf("expected hardcoded fallback %v, got %v", DefaultSampleMarginPercent, got)
	}

	zero := 0.0
	if got := ResolveSampleMargin(&zero, &system); got != 0 {
		t.Fatalf("zero override is still an override, got %v", got)
	}
}

func TestClientSampleFee(t *testing.T) {
	if got := ClientSampleFee(100, 80); math.Abs(got-180) > 1e-9 {
		t.Fatalf("expected 180, got %v", got)
	}
	if got := ClientSampleFee(40, 25); math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := ClientSampleFee(100, 0); math.Abs(got-100) > 1e-9 {
		t.Fatalf("zero margin must pass the fee through, got %v", got)
	}
}
