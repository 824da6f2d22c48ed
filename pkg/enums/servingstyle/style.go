package servingstyle

type Style struct {
	Name      string
	label     string
	surcharge int64
}

func (s Style) Code() string {
	return s.Name
}

func (s Style) Label() string {
	return s.label
}

// Surcharge is added once per unit on top of the menu base price.
func (s Style) Surcharge() int64 {
	return s.surcharge
}

type Enum struct {
	Simple Style
	Grand  Style
	Deluxe Style
}

var Styles = Enum{
	Simple: Style{Name: "SIMPLE", label: "심플", surcharge: 0},
	Grand:  Style{Name: "GRAND", label: "그랜드", surcharge: 10000},
	Deluxe: Style{Name: "DELUXE", label: "디럭스", surcharge: 20000},
}

var All = []Style{
	Styles.Simple,
	Styles.Grand,
	Styles.Deluxe,
}

// ByName returns the style for a given name, or nil if not found
func ByName(name string) *Style {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// SurchargeOf returns 0 for unknown style codes.
func SurchargeOf(name string) int64 {
	if s := ByName(name); s != nil {
		return s.Surcharge()
	}
	return 0
}
