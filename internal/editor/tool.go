package editor

import (
	"fmt"
	"strings"

	"github.com/example/drawpad/internal/scene"
)

// Tool selects what a pointer-down on the canvas does.
type Tool int

const (
	ToolRectangle Tool = iota
	ToolSquare
	ToolCircle
	ToolTriangle
	ToolLine
	ToolStraightLine
	ToolEraser
	ToolMove
	ToolCropImage
)

var toolNames = []string{
	ToolRectangle:    "rectangle",
	ToolSquare:       "square",
	ToolCircle:       "circle",
	ToolTriangle:     "triangle",
	ToolLine:         "line",
	ToolStraightLine: "straightLine",
	ToolEraser:       "eraser",
	ToolMove:         "move",
	ToolCropImage:    "cropImage",
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range toolNames {
		out[i] = Tool(i)
	}
	return out
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool resolves a tool by name, ignoring case. "rect" and "crop" are
// accepted as short forms.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(s) {
	case "rect":
		return ToolRectangle, nil
	case "crop":
		return ToolCropImage, nil
	case "straight":
		return ToolStraightLine, nil
	}
	for i, n := range toolNames {
		if strings.EqualFold(n, s) {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Kind returns the shape kind a drawing tool produces.
func (t Tool) Kind() (scene.Kind, bool) {
	switch t {
	case ToolRectangle:
		return scene.KindRect, true
	case ToolSquare:
		return scene.KindSquare, true
	case ToolCircle:
		return scene.KindCircle, true
	case ToolTriangle:
		return scene.KindTriangle, true
	case ToolLine:
		return scene.KindLine, true
	case ToolStraightLine:
		return scene.KindStraightLine, true
	case ToolEraser:
		return scene.KindEraser, true
	}
	return "", false
}

// ParseBrush resolves a brush type by name.
func ParseBrush(s string) (scene.BrushType, error) {
	switch b := scene.BrushType(strings.ToLower(s)); b {
	case scene.BrushNormal, scene.BrushWatercolor, scene.BrushSpray:
		return b, nil
	}
	return "", fmt.Errorf("unknown brush %q", s)
}

// State is the gesture the editor is in.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateDragging
	StateTransforming
	StateCroppingRect
	StateCroppingModal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateDragging:
		return "dragging"
	case StateTransforming:
		return "transforming"
	case StateCroppingRect:
		return "cropping"
	case StateCroppingModal:
		return "cropping-modal"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
