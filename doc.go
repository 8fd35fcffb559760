// Package softpipe implements a configurable graphics pipeline on the CPU.
//
// # Overview
//
// softpipe models the fixed-function stages of a modern GPU as a set of
// cooperating components connected by bounded FIFO streams: Input Assembler,
// Vertex Shader, Primitive Assembler, Rasterizer, Pixel Shader and Output
// Merger. Given vertex and index buffers, a vertex program, a pixel program
// and a set of bound constants and textures, a draw call produces a
// rasterized color image with depth testing.
//
// Stage inputs and outputs are not statically typed. Each component declares
// typed ports tagged with a semantic (Position0, Normal0, SV_Position, ...),
// and record schemas for the connecting streams are built at draw time from
// those declarations. Ports are matched to stream channels by semantic, so
// a pixel program can consume any subset of what the vertex program emits.
//
// # Quick Start
//
//	pipe := softpipe.New()
//	pipe.SetTargetSize(512, 512)
//
//	vs, ps := buildPrograms() // see the shader program API in program.go
//	pipe.SetVSProgram(vs)
//	pipe.SetPSProgram(ps)
//
//	pipe.SetVertexBufferChannel(softpipe.Position0, positions, 0, 12)
//	pipe.SetVertexBufferLength(vertexCount)
//	pipe.SetIndexBuffer(indices, 0, 4, indexCount)
//
//	if err := pipe.DrawIndexed(); err != nil {
//		log.Fatal(err)
//	}
//	pipe.Present() // writes fb_color.bmp and fb_depth.bmp
//
// # Architecture
//
// The library is organized into:
//   - Root package: type system, records, streams, components, the six
//     pipeline stages and the draw loop driver.
//   - texture: texel formats, 2D textures, samplers and image export.
//   - mesh: procedural triangle-list mesh generators.
//   - f32: the 4-component float vector used for homogeneous positions.
//   - internal/geom: edge equations, triangle setup and barycentric math.
//
// Execution is single threaded and strictly deterministic: for a given draw
// configuration the output is a pure function of the bound buffers, programs
// and constants.
package softpipe
