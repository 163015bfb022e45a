package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec_At(t *testing.T) {
	if got := Vec(nil).At(3); got != 0 {
		t.Errorf("nil Vec At = %v, want 0", got)
	}
	if got := (Vec{2.5}).At(7); got != 2.5 {
		t.Errorf("scalar Vec should broadcast, got %v", got)
	}
	if got := (Vec{1, 2, 3}).At(2); got != 3 {
		t.Errorf("At(2) = %v, want 3", got)
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	err := &ConfigError{Kind: "param", Name: "gX", Err: ErrUnknownName}
	if !errors.Is(err, ErrUnknownName) {
		t.Error("ConfigError should unwrap to ErrUnknownName")
	}
	if err.Error() != `param "gX": dynamo: unknown state or parameter name` {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Tick: 150, Time: 0.0015, Wrapped: ErrInvalidState}
	expected := "tick 150 (t=0.001500): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap")
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	var sum int64
	seen := make([]int32, 100)
	ParallelFor(100, 7, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
			atomic.AddInt64(&sum, int64(i))
		}
	})
	for i, c := range seen {
		if c != 1 {
			t.Errorf("index %d visited %d times", i, c)
		}
	}
	if sum != 4950 {
		t.Errorf("sum = %d, want 4950", sum)
	}
}
