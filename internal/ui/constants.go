package ui

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
)

// Main window geometry
const (
	WindowWidth  float32 = 640
	WindowHeight float32 = 260
)
