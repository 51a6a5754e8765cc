package models

// Lecturer is an instructor that can be assigned to courses. Color is a
// #RRGGBB hex code, unique among lecturers when the lecturer is created.
type Lecturer struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Color *string `gorm:"size:7" json:"color,omitempty" validate:"omitempty,hexcolor,len=7"`

	Courses        []Course       `gorm:"foreignKey:LecturerID;constraint:OnDelete:SET NULL;" json:"-"`
	Availabilities []Availability `gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE;" json:"availabilities,omitempty"`
}

// DisplayColor returns the lecturer color or the neutral fallback.
func (l *Lecturer) DisplayColor() string {
	if l == nil || l.Color == nil || *l.Color == "" {
		return NeutralColor
	}
	return *l.Color
}

// NeutralColor is used for unassigned courses and lecturers without a color.
const NeutralColor = "#808080"

// PaletteColor is one of the predefined lecturer colors.
type PaletteColor struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// Palette is the list of colors offered when a lecturer is created.
var Palette = []PaletteColor{
	{Hex: "#FF0000", Name: "Red"},
	{Hex: "#00FF00", Name: "Green"},
	{Hex: "#0000FF", Name: "Blue"},
	{Hex: "#FF00FF", Name: "Magenta"},
	{Hex: "#00FFFF", Name: "Cyan"},
	{Hex: "#FFD700", Name: "Gold"},
	{Hex: "#FF8C00", Name: "Orange"},
	{Hex: "#800080", Name: "Purple"},
	{Hex: "#008000", Name: "Dark green"},
	{Hex: "#4B0082", Name: "Indigo"},
}

// AvailableColors returns the palette entries not present in used, keeping
// palette order.
func AvailableColors(used map[string]bool) []PaletteColor {
	out := make([]PaletteColor, 0, len(Palette))
	for _, c := range Palette {
		if !used[c.Hex] {
			out = append(out, c)
		}
	}
	return out
}
