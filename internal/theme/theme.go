package theme

import (
	"image/color"
)

// Theme defines the colours of the drawing window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the stage
	Foreground color.RGBA // Main text color

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonActive          color.RGBA // Selected tool, brush and swatch
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Stage
	CanvasBackground color.RGBA // Drawing background, also the eraser colour
	CheckerLight     color.RGBA
	CheckerDark      color.RGBA
	SelectionHandle  color.RGBA
	CropGuide        color.RGBA

	// Snackbar
	MessageBackground color.RGBA
	MessageText       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{235, 235, 235, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonActive:          color.RGBA{76, 175, 80, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CanvasBackground:      color.RGBA{255, 255, 255, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		SelectionHandle:       color.RGBA{0, 161, 255, 255},
		CropGuide:             color.RGBA{255, 255, 255, 255},
		MessageBackground:     color.RGBA{50, 50, 50, 230},
		MessageText:           color.RGBA{255, 255, 255, 255},
	}
}
