package session

// Preset is a canned style prompt offered when the transcript is empty.
type Preset struct {
	Label  string
	Prompt string
}

// StylePresets are the built-in starting points shown in both front ends.
var StylePresets = []Preset{
	{Label: "Minimal", Prompt: "Create a minimal design with clean lines and plenty of white space"},
	{Label: "Bold", Prompt: "Create a bold, eye-catching design with vibrant colors and strong typography"},
	{Label: "Vintage", Prompt: "Create a vintage-style design with retro colors and classic elements"},
}
