// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"testing"
)

func fakeSPIRV(extra ...byte) []byte {
	return append([]byte{0x03, 0x02, 0x23, 0x07}, extra...)
}

func TestCompileCaches(t *testing.T) {
	calls := 0
	c := NewCompiler(0)
	c.compile = func(string) ([]byte, error) {
		calls++
		return fakeSPIRV(1, 0, 0, 0), nil
	}

	a, err := c.Compile("vs", "@vertex fn main() {}")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b, _ := c.Compile("other label", "@vertex fn main() {}")
	if a != b {
		t.Error("identical sources returned different descriptors")
	}
	if calls != 1 {
		t.Errorf("compile calls = %d, want 1", calls)
	}
	if got := a.Source.SPIRV; len(got) != 2 || got[0] != spirvMagic || got[1] != 1 {
		t.Errorf("SPIRV = %#v", got)
	}
	if a.Label != "vs" {
		t.Errorf("Label = %q, want vs", a.Label)
	}
}

func TestCompileErrors(t *testing.T) {
	boom := errors.New("boom")
	c := NewCompiler(0)
	c.compile = func(string) ([]byte, error) { return nil, boom }

	if _, err := c.Compile("x", ""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("empty source: err = %v, want ErrEmptySource", err)
	}
	_, err := c.Compile("fs", "broken")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want failed compile cached", c.Len())
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		wantErr bool
	}{
		{"valid", fakeSPIRV(), false},
		{"empty", nil, true},
		{"ragged", fakeSPIRV(1), true},
		{"bad magic", []byte{1, 2, 3, 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Words(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Words() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
