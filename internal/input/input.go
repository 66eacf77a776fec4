package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Action represents a logical viewer action, not a physical key
type Action int

// Action constants using iota
const (
	ActionOrbit Action = iota
	ActionPan
	ActionQuit
	ActionToggleWireframe
	ActionResetCamera
	ActionToggleProfiling
	ActionModShift
	ActionCount // Sentinel value for array sizing
)

// InputManager maps physical keys and buttons to actions and accumulates
// pointer motion between frames
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Mouse button to action mapping
	mouseButtonToActions map[glfw.MouseButton][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	// Pointer state
	cursor     mgl32.Vec2
	haveCursor bool
	drag       mgl32.Vec2
	scroll     float32
}

// NewInputManager creates a new InputManager with default bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	// Set default key bindings
	im.BindKey(glfw.KeyEscape, ActionQuit)
	im.BindKey(glfw.KeyF, ActionToggleWireframe)
	im.BindKey(glfw.KeyR, ActionResetCamera)
	im.BindKey(glfw.KeyV, ActionToggleProfiling)
	im.BindKey(glfw.KeyLeftShift, ActionModShift)
	im.BindKey(glfw.KeyRightShift, ActionModShift)

	// Set default mouse button bindings
	im.BindMouseButton(glfw.MouseButtonLeft, ActionOrbit)
	im.BindMouseButton(glfw.MouseButtonRight, ActionPan)
	im.BindMouseButton(glfw.MouseButtonMiddle, ActionPan)

	return im
}

// BindKey binds a physical key to a logical action
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// BindMouseButton binds a mouse button to a logical action
func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

func (im *InputManager) setLocked(actions []Action, isPressed bool) {
	for _, act := range actions {
		if act < 0 || act >= ActionCount {
			continue
		}
		// Detect edges immediately when event arrives
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !isPressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = isPressed
	}
}

// HandleKeyEvent processes a key event and updates internal state
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.keyToActions[key]
	if !exists {
		return
	}
	im.setLocked(actions, action == glfw.Press || action == glfw.Repeat)
}

// HandleMouseButtonEvent processes a mouse button event and updates internal state
func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.mouseButtonToActions[button]
	if !exists {
		return
	}
	im.setLocked(actions, action == glfw.Press)
}

// HandleCursorPos records pointer motion since the previous event
func (im *InputManager) HandleCursorPos(x, y float64) {
	im.mu.Lock()
	defer im.mu.Unlock()

	pos := mgl32.Vec2{float32(x), float32(y)}
	if im.haveCursor {
		im.drag = im.drag.Add(pos.Sub(im.cursor))
	}
	im.cursor = pos
	im.haveCursor = true
}

// HandleScroll accumulates wheel steps; positive is away from the user
func (im *InputManager) HandleScroll(yoff float64) {
	im.mu.Lock()
	im.scroll += float32(yoff)
	im.mu.Unlock()
}

// Attach installs the GLFW callbacks for this input manager
// This should be called once during initialization
func (im *InputManager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		im.HandleCursorPos(x, y)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		im.HandleScroll(yoff)
	})
}

// TakePointer returns and clears the drag and scroll accumulated since the
// last call
func (im *InputManager) TakePointer() (drag mgl32.Vec2, scroll float32) {
	im.mu.Lock()
	defer im.mu.Unlock()

	drag, scroll = im.drag, im.scroll
	im.drag = mgl32.Vec2{}
	im.scroll = 0
	return drag, scroll
}

// PostUpdate must be called at the end of each frame to reset edge flags
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justReleased[action]
}
