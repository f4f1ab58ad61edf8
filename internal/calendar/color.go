package calendar

// Block categories with a dedicated palette entry.
const (
	BlockDeepWork = "deep_work"
	BlockMeeting  = "meeting"
	BlockFocus    = "focus"
	BlockBreak    = "break"
	BlockPersonal = "personal"
	BlockAdmin    = "admin"
)

var blockPalette = map[string]string{
	BlockDeepWork: "purple",
	BlockMeeting:  "blue",
	BlockFocus:    "indigo",
	BlockBreak:    "green",
	BlockPersonal: "pink",
	BlockAdmin:    "gray",
}

// ColorHint derives a rendering color from kind-specific attributes.
func (e TimedEvent) ColorHint() string {
	if task, ok := e.Task(); ok {
		return PriorityColor(task.PriorityScore)
	}
	if block, ok := e.TimeBlock(); ok {
		return BlockColor(block.BlockType)
	}
	return "slate"
}

// PriorityColor maps a task priority score to red, orange, yellow or blue,
// highest tier first.
func PriorityColor(score int) string {
	switch {
	case score >= 80:
		return "red"
	case score >= 60:
		return "orange"
	case score >= 40:
		return "yellow"
	default:
		return "blue"
	}
}

// BlockColor maps a time block category to its palette color.
func BlockColor(blockType string) string {
	if color, ok := blockPalette[blockType]; ok {
		return color
	}
	return "slate"
}
