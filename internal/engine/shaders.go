package engine

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Shared particle vertex shader: canvas-space point sprites.
// uParams = (canvas width, canvas height, elapsed seconds, intensity 0..1).
const particleVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;
layout(location = 1) in vec2 aVel;
layout(location = 2) in vec4 aColor;
layout(location = 3) in float aLife;
layout(location = 4) in float aSize;

uniform vec4 uParams;

out vec4 vColor;
out float vLife;
out float vSpeed;

void main() {
    vec2 ndc = (aPos / uParams.xy) * 2.0 - 1.0;
    ndc.y = -ndc.y;
    gl_Position = vec4(ndc, 0.0, 1.0);
    gl_PointSize = max(1.0, aSize * (0.6 + 0.4 * aLife));
    vColor = aColor;
    vLife = aLife;
    vSpeed = length(aVel);
}
` + "\x00"

// Normal fragment path: the particle's literal color with a small
// life-driven glow boost and radial falloff.
const normalFragSrc = `#version 410 core

uniform vec4 uParams;

in vec4 vColor;
in float vLife;
in float vSpeed;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float falloff = clamp(1.0 - dist, 0.0, 1.0);
    falloff = falloff * falloff;
    float glow = 0.85 + 0.30 * vLife;
    FragColor = vec4(vColor.rgb * glow, vColor.a * vLife * falloff);
}
` + "\x00"

// Phosphor fragment path: fixed hue, life-dependent glow multiplier, and a
// small continuous flicker keyed off elapsed time and particle speed.
const phosphorFragSrc = `#version 410 core

uniform vec4 uParams;

in vec4 vColor;
in float vLife;
in float vSpeed;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float falloff = clamp(1.0 - dist, 0.0, 1.0);
    falloff = falloff * falloff;
    vec3 phosphor = vec3(0.62, 1.0, 0.78);
    float glow = 1.2 + 2.2 * vLife;
    float flicker = 0.92 + 0.08 * sin(uParams.z * 37.0 + vSpeed * 0.05);
    float alpha = vColor.a * (0.35 + 0.65 * vLife) * falloff;
    FragColor = vec4(phosphor * glow * flicker, alpha);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
