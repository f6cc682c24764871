package logfields

import (
	"errors"
	"testing"
)

func TestErrorAttrNil(t *testing.T) {
	attr := Error(nil)
	if attr.Value.String() != "" {
		t.Errorf("nil error should produce empty value, got %q", attr.Value.String())
	}
}

func TestErrorAttrMessage(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("unexpected key %q", attr.Key)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("unexpected value %q", attr.Value.String())
	}
}

func TestDurationKeyStable(t *testing.T) {
	if DurationMS(12.5).Key != "duration_ms" {
		t.Error("duration key drifted")
	}
}
