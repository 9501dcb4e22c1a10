package measurement

// Kind tags a Value with the physical unit it is measured in. Two values
// can only be compared or combined when their kinds are identical.
type Kind int

const (
	KindGeneric Kind = iota
	KindCelsius
	KindFahrenheit
	KindMeters
	KindMillimeters
	KindPercent
	KindKilometersPerHour
	KindPascals
	KindDegreesAngle
)

type kindInfo struct {
	name    string
	display string
}

var kinds = map[Kind]kindInfo{
	KindGeneric:           {name: "Generic", display: ""},
	KindCelsius:           {name: "Celsius", display: "degrees Celsius"},
	KindFahrenheit:        {name: "Fahrenheit", display: "degrees Fahrenheit"},
	KindMeters:            {name: "Meters", display: "meters"},
	KindMillimeters:       {name: "Millimeters", display: "millimeters"},
	KindPercent:           {name: "Percent", display: "percent"},
	KindKilometersPerHour: {name: "KilometersPerHour", display: "km/h"},
	KindPascals:           {name: "Pascals", display: "pascals"},
	KindDegreesAngle:      {name: "DegreesAngle", display: "degrees"},
}

// Unit codes as published by the NWS API (WMO code registry).
var unitCodes = map[string]Kind{
	"wmoUnit:degC":           KindCelsius,
	"wmoUnit:degF":           KindFahrenheit,
	"wmoUnit:m":              KindMeters,
	"wmoUnit:mm":             KindMillimeters,
	"wmoUnit:percent":        KindPercent,
	"wmoUnit:km_h-1":         KindKilometersPerHour,
	"wmoUnit:Pa":             KindPascals,
	"wmoUnit:degree_(angle)": KindDegreesAngle,
}

// String returns the kind's name, e.g. "Celsius".
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "Kind(unknown)"
}

// DisplayName is the human readable unit suffix used by Value.String.
func (k Kind) DisplayName() string {
	return kinds[k].display
}

// KindForCode maps a unit code to its kind. Unknown codes map to KindGeneric.
func KindForCode(unitCode string) Kind {
	if k, ok := unitCodes[unitCode]; ok {
		return k
	}
	return KindGeneric
}
