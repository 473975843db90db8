// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package math

import "testing"

func TestSafeAdd(t *testing.T) {
	if _, over := SafeAdd(^uint64(0), 1); !over {
		t.Error("expected overflow")
	}
	if sum, over := SafeAdd(1, 2); over || sum != 3 {
		t.Errorf("got %d, overflow %v", sum, over)
	}
}

func TestSafeMul(t *testing.T) {
	if _, over := SafeMul(^uint64(0), 2); !over {
		t.Error("expected overflow")
	}
	if v, over := SafeMul(3, 4); over || v != 12 {
		t.Errorf("got %d, overflow %v", v, over)
	}
}

func TestSafeDiv(t *testing.T) {
	if _, divByZero := SafeDiv(10, 0); !divByZero {
		t.Error("expected div-by-zero flag")
	}
	if v, _ := SafeDiv(10, 4); v != 2 {
		t.Errorf("got %d, want 2", v)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 10, 20) != 10 {
		t.Error("expected clamp to lower bound")
	}
	if Clamp(25, 10, 20) != 20 {
		t.Error("expected clamp to upper bound")
	}
	if Clamp(15, 10, 20) != 15 {
		t.Error("expected value unchanged within bounds")
	}
}

func TestAbsDiff(t *testing.T) {
	if AbsDiff(3, 10) != 7 || AbsDiff(10, 3) != 7 {
		t.Error("AbsDiff should be symmetric")
	}
}

func TestMustParseUint64(t *testing.T) {
	if MustParseUint64("42") != 42 {
		t.Error("bad parse")
	}
}
