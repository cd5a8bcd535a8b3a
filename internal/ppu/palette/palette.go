package palette

const (
	// DMG is the stock four-shade palette (light to dark).
	DMG = iota
	// Green approximates the original Game Boy's LCD tint.
	Green
	// Red is a red-tinted palette.
	Red
	// Yellow is a yellow-tinted palette.
	Yellow
)

// Palette represents a palette. A palette is an array of 4 RGB values,
// that can be used to represent a colour.
type Palette struct {
	// The palette's colors.
	Colors [4][3]uint8
}

// Current is the currently selected palette.
var Current = DMG

// Palettes is a list of all available palettes.
var Palettes = []Palette{
	// DMG
	{
		Colors: [4][3]uint8{
			{0xE0, 0xF8, 0xD0},
			{0x88, 0xC0, 0x70},
			{0x34, 0x68, 0x56},
			{0x08, 0x18, 0x20},
		},
	},
	// Green
	{
		Colors: [4][3]uint8{
			{0x9B, 0xBC, 0x0F},
			{0x8B, 0xAC, 0x0F},
			{0x30, 0x62, 0x30},
			{0x0F, 0x38, 0x0F},
		},
	},
	// Red
	{
		Colors: [4][3]uint8{
			{0xFF, 0x00, 0x00},
			{0xCC, 0x00, 0x00},
			{0x77, 0x00, 0x00},
			{0x00, 0x00, 0x00},
		},
	},
	// Yellow
	{
		Colors: [4][3]uint8{
			{0xFF, 0xFF, 0x00},
			{0xCC, 0xCC, 0x00},
			{0x77, 0x77, 0x00},
			{0x00, 0x00, 0x00},
		},
	},
}

// GetColour returns the colour based on the colour index and the
// Current palette.
func GetColour(index uint8) [3]uint8 {
	return Palettes[Current].Colors[index]
}
