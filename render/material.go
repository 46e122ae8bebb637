// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapview/color"
	lincolor "github.com/gogpu/mapview/internal/color"
)

// DepthStencilFormat is the depth attachment format materials are built for.
const DepthStencilFormat = gputypes.TextureFormatDepth24PlusStencil8

// Material is the GPU state and shading parameters of an object.
type Material struct {
	Name string

	Color       color.RGBA
	Opacity     float64
	Transparent bool
	// LineWidth is the line width in world units, or the point size for
	// point objects.
	LineWidth float64
	DashSize  float64
	GapSize   float64
	// Texture is the URL or image name of the diffuse map, if any.
	Texture string

	Primitive    gputypes.PrimitiveState
	Blend        *gputypes.BlendState
	WriteMask    gputypes.ColorWriteMask
	DepthStencil hal.DepthStencilState
	// StencilReference is the reference value used with the stencil state.
	StencilReference uint32

	PolygonOffset PolygonOffset
	Fading        FadeParams
	// ExtrusionRatio scales extruded heights, from 0 (flat) to 1.
	ExtrusionRatio float64

	// Vertex and Fragment hold compiled programs of shader techniques.
	Vertex   *hal.ShaderModuleDescriptor
	Fragment *hal.ShaderModuleDescriptor
	// Uniforms holds additional technique parameters evaluated at the
	// material's zoom level.
	Uniforms map[string]any
}

// NewMaterial returns an opaque material for objects of kind with depth
// testing on and culling off.
func NewMaterial(name string, kind ObjectKind) *Material {
	return &Material{
		Name:           name,
		Color:          color.White,
		Opacity:        1,
		LineWidth:      1,
		Primitive:      gputypes.PrimitiveState{Topology: topology(kind), CullMode: gputypes.CullModeNone},
		WriteMask:      gputypes.ColorWriteMaskAll,
		DepthStencil:   depthState(true),
		Fading:         NoFading,
		ExtrusionRatio: 1,
	}
}

func topology(kind ObjectKind) gputypes.PrimitiveTopology {
	switch kind {
	case LineSegments:
		return gputypes.PrimitiveTopologyLineList
	case Points:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

func depthState(write bool) hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return hal.DepthStencilState{
		Format:            DepthStencilFormat,
		DepthWriteEnabled: write,
		DepthCompare:      gputypes.CompareFunctionLessEqual,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0xFF,
		StencilWriteMask:  0,
	}
}

// SetTransparent switches the material to premultiplied alpha blending
// without depth writes when opacity is below one or transparency is
// requested.
func (m *Material) SetTransparent(transparent bool) {
	m.Transparent = transparent || m.Opacity < 1
	if m.Transparent {
		blend := gputypes.BlendStatePremultiplied()
		m.Blend = &blend
		m.DepthStencil.DepthWriteEnabled = false
	} else {
		m.Blend = nil
	}
}

// SetDepthTest enables or disables depth testing.
func (m *Material) SetDepthTest(enabled bool) {
	if enabled {
		m.DepthStencil.DepthCompare = gputypes.CompareFunctionLessEqual
	} else {
		m.DepthStencil.DepthCompare = gputypes.CompareFunctionAlways
		m.DepthStencil.DepthWriteEnabled = false
	}
}

// ShaderColor returns the material color with its opacity applied, in the
// linear premultiplied form the blend state expects.
func (m *Material) ShaderColor() [4]float32 {
	return lincolor.Linear(m.Color, m.Opacity)
}

// Clone returns a copy of m that can be modified independently.
func (m *Material) Clone() *Material {
	c := *m
	if m.Blend != nil {
		b := *m.Blend
		c.Blend = &b
	}
	if m.Uniforms != nil {
		c.Uniforms = make(map[string]any, len(m.Uniforms))
		for k, v := range m.Uniforms {
			c.Uniforms[k] = v
		}
	}
	return &c
}

// DepthPrepass derives a depth-only material from color and turns color
// into the cover pass of a stencil pair: the pre-pass writes depth and
// increments the stencil, the color pass only draws where the stencil was
// touched and clears it behind itself, so overlapping transparent faces of
// one extrusion blend once.
func DepthPrepass(colorMat *Material) *Material {
	depth := colorMat.Clone()
	depth.Name = colorMat.Name + "-depth-prepass"
	depth.Blend = nil
	depth.WriteMask = gputypes.ColorWriteMaskNone
	depth.DepthStencil.DepthWriteEnabled = true
	depth.DepthStencil.DepthCompare = gputypes.CompareFunctionLessEqual
	depth.DepthStencil.StencilWriteMask = 0xFF
	inc := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationIncrementWrap,
	}
	depth.DepthStencil.StencilFront = inc
	depth.DepthStencil.StencilBack = inc

	colorMat.DepthStencil.DepthWriteEnabled = false
	colorMat.DepthStencil.DepthCompare = gputypes.CompareFunctionLessEqual
	colorMat.DepthStencil.StencilWriteMask = 0xFF
	cover := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionNotEqual,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationZero,
	}
	colorMat.DepthStencil.StencilFront = cover
	colorMat.DepthStencil.StencilBack = cover
	colorMat.StencilReference = 0
	return depth
}

// PolygonOffset pushes fill geometry back in depth so that outlines drawn
// at the same depth win.
type PolygonOffset struct {
	Enabled bool
	Factor  float64
	Units   float64
}

// Default polygon offset of fills drawn under edges.
var DefaultPolygonOffset = PolygonOffset{Enabled: true, Factor: 1, Units: 3}

// FadingDisabled marks an unset fade distance.
const FadingDisabled = -1.0

// FadeParams fades an object out between Near and Far, both expressed as a
// fraction of the camera's far plane.
type FadeParams struct {
	Near float64
	Far  float64
}

// NoFading leaves objects fully visible.
var NoFading = FadeParams{Near: FadingDisabled, Far: FadingDisabled}

// Enabled reports whether both distances are set and the far distance is
// positive.
func (f FadeParams) Enabled() bool {
	return f.Near != FadingDisabled && f.Far != FadingDisabled && f.Far > 0
}

// Alpha returns the opacity factor at distance d.
func (f FadeParams) Alpha(d float64) float64 {
	if !f.Enabled() || d <= f.Near {
		return 1
	}
	if d >= f.Far || f.Far <= f.Near {
		return 0
	}
	return 1 - (d-f.Near)/(f.Far-f.Near)
}
