package errors

import (
	"math"
	"testing"
)

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("op", 1.5, 0); err != nil {
		t.Errorf("finite value should pass: %v", err)
	}
	if err := CheckScalar("op", math.NaN(), 3); err == nil {
		t.Error("NaN should fail")
	}
	if err := CheckScalar("op", math.Inf(1), 3); err == nil {
		t.Error("Inf should fail")
	}
}

func TestCheckScalarErrorCarriesEpoch(t *testing.T) {
	err := CheckScalar("cost", math.NaN(), 7)

	var instability *NumericalInstabilityError
	if !As(err, &instability) {
		t.Fatalf("expected NumericalInstabilityError, got %T", err)
	}
	if instability.Epoch != 7 {
		t.Errorf("epoch: got %d, want 7", instability.Epoch)
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(10, 2); got != 5 {
		t.Errorf("got %v, want 5", got)
	}
	if got := SafeDivide(10, 0); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("division by zero not guarded: %v", got)
	}
}

func TestClipValue(t *testing.T) {
	if got := ClipValue(5, 0, 1); got != 1 {
		t.Errorf("got %v, want 1", got)
	}
	if got := ClipValue(-5, 0, 1); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
	if got := ClipValue(0.5, 0, 1); got != 0.5 {
		t.Errorf("got %v, want 0.5", got)
	}
}

func TestStabilizeLogIsFinite(t *testing.T) {
	for _, v := range []float64{0, 1e-300, 1} {
		if got := StabilizeLog(v); math.IsInf(got, 0) || math.IsNaN(got) {
			t.Errorf("StabilizeLog(%v) = %v", v, got)
		}
	}
}

func TestLogSumExp(t *testing.T) {
	// log(e^0 + e^0) = log 2
	if got := LogSumExp([]float64{0, 0}); math.Abs(got-math.Log(2)) > 1e-12 {
		t.Errorf("got %v, want log 2", got)
	}
	// Huge values must not overflow.
	if got := LogSumExp([]float64{1000, 1000}); math.IsInf(got, 0) {
		t.Errorf("overflowed: %v", got)
	}
}

func TestRecoverConvertsPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "Op")
		panic("boom")
	}

	err := run()
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}

	var p *PanicError
	if !As(err, &p) {
		t.Fatalf("expected PanicError, got %T", err)
	}
}
