package config

import (
	"errors"
	"testing"
)

func TestLitKind_RoundTrip(t *testing.T) {
	for _, kind := range []LitKind{LitKindVec, LitKindVecFront, LitKindSet, LitKindMap} {
		parsed, err := ParseLitKind(kind.String())
		if err != nil {
			t.Errorf("ParseLitKind(%q) error = %v", kind.String(), err)
			continue
		}
		if parsed != kind {
			t.Errorf("ParseLitKind(%q) = %v, want %v", kind.String(), parsed, kind)
		}
		if !kind.IsValid() {
			t.Errorf("IsValid() = false for %v", kind)
		}
	}

	if _, err := ParseLitKind("deque"); !errors.Is(err, ErrInvalidLitKind) {
		t.Errorf("ParseLitKind(deque) error = %v, want ErrInvalidLitKind", err)
	}
	if LitKind(42).IsValid() {
		t.Error("IsValid() = true for out of range value")
	}
}

func TestLitKind_Properties(t *testing.T) {
	tests := []struct {
		kind     LitKind
		appendOp string
		mapped   bool
		keyed    bool
	}{
		{kind: LitKindVec, appendOp: "Push", mapped: false, keyed: false},
		{kind: LitKindVecFront, appendOp: "PushFront", mapped: false, keyed: false},
		{kind: LitKindSet, appendOp: "Insert", mapped: true, keyed: false},
		{kind: LitKindMap, appendOp: "Insert", mapped: true, keyed: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.AppendOp(); got != tt.appendOp {
				t.Errorf("AppendOp() = %q, want %q", got, tt.appendOp)
			}
			if got := tt.kind.Mapped(); got != tt.mapped {
				t.Errorf("Mapped() = %v, want %v", got, tt.mapped)
			}
			if got := tt.kind.Keyed(); got != tt.keyed {
				t.Errorf("Keyed() = %v, want %v", got, tt.keyed)
			}
		})
	}
}
