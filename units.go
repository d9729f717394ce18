package chromquant

// Unit is a measurement unit string. Only the enumerated values below are
// accepted where a unit is required.
type Unit string

// Concentration units.
const (
	Molar      Unit = "M"
	MilliMolar Unit = "mM"
	MicroMolar Unit = "uM"
	NanoMolar  Unit = "nM"
	GramPerL   Unit = "g/l"
	MilligramL Unit = "mg/l"
	MicrogramL Unit = "ug/l"
)

// Time units.
const (
	Second Unit = "s"
	Minute Unit = "min"
	Hour   Unit = "hour"
	Day    Unit = "day"
)

// Temperature units.
const (
	Celsius Unit = "C"
	Kelvin  Unit = "K"
)

var concentrationUnits = map[Unit]bool{
	Molar:      true,
	MilliMolar: true,
	MicroMolar: true,
	NanoMolar:  true,
	GramPerL:   true,
	MilligramL: true,
	MicrogramL: true,
}

var timeUnits = map[Unit]bool{
	Second: true,
	Minute: true,
	Hour:   true,
	Day:    true,
}

// timeUnitAliases maps the unit spellings that instrument exports and file
// names use onto the canonical time units.
var timeUnitAliases = map[string]Unit{
	"s":       Second,
	"sec":     Second,
	"secs":    Second,
	"second":  Second,
	"seconds": Second,
	"min":     Minute,
	"mins":    Minute,
	"minute":  Minute,
	"minutes": Minute,
	"h":       Hour,
	"hour":    Hour,
	"hours":   Hour,
	"d":       Day,
	"day":     Day,
	"days":    Day,
}

func (u Unit) IsConcentration() bool { return concentrationUnits[u] }

func (u Unit) IsTime() bool { return timeUnits[u] }

// ParseTimeUnit resolves a time unit spelling such as "mins" or "seconds" to
// its canonical Unit. The second return value reports whether the spelling
// was recognized.
func ParseTimeUnit(s string) (Unit, bool) {
	u, ok := timeUnitAliases[s]
	return u, ok
}
