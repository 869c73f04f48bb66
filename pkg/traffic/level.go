package traffic

// Color is the colour a route is drawn in.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
	Gray   Color = "gray"
)

// Level is a predicted congestion level.
type Level int

const (
	Low      Level = 0
	Moderate Level = 1
	Heavy    Level = 2
)

// ColorOf maps a level to its colour. Anything outside 0..2 is gray.
func ColorOf(level int) Color {
	switch Level(level) {
	case Low:
		return Green
	case Moderate:
		return Yellow
	case Heavy:
		return Red
	default:
		return Gray
	}
}

// Label is the legend text for a level.
func Label(level int) string {
	switch Level(level) {
	case Low:
		return "Low"
	case Moderate:
		return "Moderate"
	case Heavy:
		return "Heavy"
	default:
		return "Unknown"
	}
}

// Legend lists the known levels in order.
func Legend() []Level { return []Level{Low, Moderate, Heavy} }

// Hex returns a CSS colour for c.
func (c Color) Hex() string {
	switch c {
	case Green:
		return "#16a34a"
	case Yellow:
		return "#eab308"
	case Red:
		return "#dc2626"
	default:
		return "#9ca3af"
	}
}
