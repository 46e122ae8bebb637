// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles the WGSL programs of shader techniques to SPIR-V
// module descriptors and caches them by source.
package shader

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapview/internal/cache"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ErrEmptySource is returned for blank shader sources.
var ErrEmptySource = errors.New("shader: empty source")

type compiled struct {
	desc *hal.ShaderModuleDescriptor
	err  error
}

// Compiler compiles WGSL and keeps the results, failures included, in a
// sharded LRU cache.
type Compiler struct {
	cache *cache.Sharded[string, compiled]
	// compile is replaced in tests.
	compile func(string) ([]byte, error)
}

// NewCompiler returns a compiler caching up to capacity programs per shard
// (cache.DefaultShardCapacity when capacity <= 0).
func NewCompiler(capacity int) *Compiler {
	return &Compiler{
		cache:   cache.NewSharded[string, compiled](capacity, cache.StringHasher),
		compile: naga.Compile,
	}
}

// Compile returns a SPIR-V module descriptor for the WGSL source. Identical
// sources share one descriptor.
func (c *Compiler) Compile(label, wgsl string) (*hal.ShaderModuleDescriptor, error) {
	if wgsl == "" {
		return nil, ErrEmptySource
	}
	r := c.cache.GetOrCreate(wgsl, func() compiled {
		words, err := c.toSPIRV(wgsl)
		if err != nil {
			return compiled{err: fmt.Errorf("shader %q: %w", label, err)}
		}
		return compiled{desc: &hal.ShaderModuleDescriptor{
			Label:  label,
			Source: hal.ShaderSource{SPIRV: words},
		}}
	})
	return r.desc, r.err
}

// Len returns the number of cached programs.
func (c *Compiler) Len() int { return c.cache.Len() }

func (c *Compiler) toSPIRV(wgsl string) ([]uint32, error) {
	b, err := c.compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}
	return Words(b)
}

// Words converts little-endian SPIR-V bytes to words and checks the magic
// number.
func Words(b []byte) ([]uint32, error) {
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, fmt.Errorf("spir-v length %d is not a positive multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("spir-v magic %#08x, want %#08x", words[0], spirvMagic)
	}
	return words, nil
}
