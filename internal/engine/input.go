package engine

import "github.com/go-gl/glfw/v3.3/glfw"

// InputState is the per-frame input surface: four directional booleans
// plus fire.
type InputState struct {
	Up, Down, Left, Right bool
	Fire                  bool
}

// ReadInputState samples WASD/arrow keys and space.
func ReadInputState(window *glfw.Window) InputState {
	down := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	return InputState{
		Up:    down(glfw.KeyW, glfw.KeyUp),
		Down:  down(glfw.KeyS, glfw.KeyDown),
		Left:  down(glfw.KeyA, glfw.KeyLeft),
		Right: down(glfw.KeyD, glfw.KeyRight),
		Fire:  down(glfw.KeySpace),
	}
}

// Input tracks previous key state for edge-triggered presses.
type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}
