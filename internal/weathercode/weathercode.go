// Package weathercode maps WMO weather codes to an icon and a Spanish
// description.
package weathercode

const (
	fallbackIcon        = "🌈"
	fallbackDescription = "Condiciones variables"
)

var descriptions = map[int]string{
	0:  "Despejado",
	1:  "Mayormente despejado",
	2:  "Parcialmente nublado",
	3:  "Nublado",
	45: "Niebla",
	48: "Niebla helada",
	51: "Llovizna ligera",
	53: "Llovizna moderada",
	55: "Llovizna intensa",
	61: "Lluvia ligera",
	63: "Lluvia moderada",
	65: "Lluvia intensa",
	71: "Nieve ligera",
	73: "Nieve moderada",
	75: "Nieve intensa",
	77: "Granizo",
	80: "Chubascos ligeros",
	81: "Chubascos moderados",
	82: "Chubascos intensos",
	95: "Tormenta eléctrica",
	96: "Tormenta con granizo ligero",
	99: "Tormenta con granizo intenso",
}

// Icon returns the emoji for code. Ranges are checked in order, first match wins.
func Icon(code int) string {
	switch {
	case code == 0:
		return "☀️"
	case code >= 1 && code <= 3:
		return "🌤️"
	case code >= 45 && code <= 48:
		return "🌫️"
	case code >= 51 && code <= 67:
		return "🌧️"
	case code >= 71 && code <= 77:
		return "❄️"
	case code >= 80 && code <= 82:
		return "⛈️"
	case code >= 95 && code <= 99:
		return "⚡"
	default:
		return fallbackIcon
	}
}

// Description returns the exact-match description for code.
func Description(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return fallbackDescription
}

func Classify(code int) (icon, description string) {
	return Icon(code), Description(code)
}

// ClassifyOptional classifies a code that may be absent from the payload.
func ClassifyOptional(code *int) (icon, description string) {
	if code == nil {
		return fallbackIcon, fallbackDescription
	}
	return Classify(*code)
}
