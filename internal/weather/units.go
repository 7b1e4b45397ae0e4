package weather

import (
	"fmt"
	"math"
	"strings"
)

// TemperatureUnit is the display unit preference.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// ParseUnit accepts "celsius"/"c" and "fahrenheit"/"f" in any case. An
// empty string yields Celsius.
func ParseUnit(s string) (TemperatureUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", string(Celsius):
		return Celsius, nil
	case "f", string(Fahrenheit):
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}

// Format renders a Celsius value in the unit. The value is rounded before
// conversion, so 21.6°C shows as 22°C and 72°F.
func (u TemperatureUnit) Format(celsius float64) string {
	rounded := math.Round(celsius)
	if u == Fahrenheit {
		return fmt.Sprintf("%d°F", int(math.Round(rounded*9/5+32)))
	}
	return fmt.Sprintf("%d°C", int(rounded))
}
