// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the renderable output of tile geometry creation.
//
// Geometry creation turns decoded tile groups into Objects. An Object names
// a draw range over a decoded geometry, the Material it is drawn with and
// the render order that sorts it against other objects. Materials describe
// GPU pipeline state with gputypes and the wgpu HAL descriptors so that a
// rendering backend can build pipelines without knowing about techniques.
//
// # Object kinds
//
//   - Mesh: triangle lists (fills, extrusions, lines rendered as quads)
//   - LineSegments: line lists (edges, hairlines)
//   - Points: point lists (circles, squares)
//
// # Effects
//
// Materials carry fading (FadeParams), polygon offset (PolygonOffset) and
// an extrusion ratio animated by ExtrusionAnimation. Depth pre-pass setups
// pair a depth-only material with a color material through the stencil
// buffer; see DepthPrepass.
package render
