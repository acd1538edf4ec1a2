package engine

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glOffset converts a byte offset to unsafe.Pointer for VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// initial VBO capacity, in vertex records.
const initialVBORecords = 4096

// Renderer owns the particle pipeline: one streaming VBO holding the
// 40-byte vertex records and two programs sharing the vertex stage. The
// normal and phosphor buffers each draw in a single point-primitive pass
// with standard over-blending.
type Renderer struct {
	normProg uint32
	phosProg uint32 // 0 when the fallback pipeline is active

	vao    uint32
	vbo    uint32
	vboCap int // capacity in float32s

	uNormParams int32
	uPhosParams int32
}

// NewRenderer builds both programs. A phosphor program failure is
// recoverable: it is logged with the full GL diagnostic and both buffers
// fall back to the normal program. A normal program failure is fatal.
func NewRenderer() (*Renderer, error) {
	normProg, err := linkProgram(particleVertSrc, normalFragSrc)
	if err != nil {
		return nil, fmt.Errorf("particle program: %w", err)
	}
	phosProg, err := linkProgram(particleVertSrc, phosphorFragSrc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phosphor program failed, using fallback pipeline: %v\n", err)
		phosProg = 0
	}

	r := &Renderer{normProg: normProg, phosProg: phosProg}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	r.vboCap = initialVBORecords * VertexFloats
	gl.BufferData(gl.ARRAY_BUFFER, r.vboCap*4, nil, gl.STREAM_DRAW)

	stride := int32(VertexStride)
	// aPos (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	// aVel (vec2)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, glOffset(2*4))
	// aColor (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(4*4))
	// aLife (float)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, glOffset(8*4))
	// aSize (float)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointer(4, 1, gl.FLOAT, false, stride, glOffset(9*4))

	r.uNormParams = gl.GetUniformLocation(normProg, gl.Str("uParams\x00"))
	if phosProg != 0 {
		r.uPhosParams = gl.GetUniformLocation(phosProg, gl.Str("uParams\x00"))
	}

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	for _, id := range []uint32{r.normProg, r.phosProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// BeginFrame clears to the mode-dependent background: pure black normally,
// a dim green tint when special mode is forced. Runs even when zero
// particles are alive.
func (r *Renderer) BeginFrame(fbW, fbH int, special bool) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	if special {
		gl.ClearColor(0.010, 0.035, 0.020, 1.0)
	} else {
		gl.ClearColor(0, 0, 0, 1.0)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// upload streams records into the VBO, reallocating only when the data
// exceeds the current capacity.
func (r *Renderer) upload(buf []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if len(buf) > r.vboCap {
		newCap := r.vboCap
		for newCap < len(buf) {
			newCap *= 2
		}
		gl.BufferData(gl.ARRAY_BUFFER, newCap*4, nil, gl.STREAM_DRAW)
		r.vboCap = newCap
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(buf)*4, gl.Ptr(buf))
}

// DrawParticles issues one draw per non-empty buffer.
func (r *Renderer) DrawParticles(normBuf, phosBuf []float32, elapsed, intensity float64) {
	gl.BindVertexArray(r.vao)

	if len(normBuf) > 0 {
		gl.UseProgram(r.normProg)
		gl.Uniform4f(r.uNormParams, CanvasWidth, CanvasHeight, float32(elapsed), float32(intensity))
		r.upload(normBuf)
		gl.DrawArrays(gl.POINTS, 0, int32(len(normBuf)/VertexFloats))
	}

	if len(phosBuf) > 0 {
		prog, loc := r.phosProg, r.uPhosParams
		if prog == 0 {
			prog, loc = r.normProg, r.uNormParams
		}
		gl.UseProgram(prog)
		gl.Uniform4f(loc, CanvasWidth, CanvasHeight, float32(elapsed), float32(intensity))
		r.upload(phosBuf)
		gl.DrawArrays(gl.POINTS, 0, int32(len(phosBuf)/VertexFloats))
	}

	gl.BindVertexArray(0)
}
