package weathercode

import "testing"

func TestIcon(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "☀️"},
		{1, "🌤️"},
		{3, "🌤️"},
		{4, "🌈"},
		{45, "🌫️"},
		{47, "🌫️"},
		{48, "🌫️"},
		{51, "🌧️"},
		{66, "🌧️"},
		{67, "🌧️"},
		{68, "🌈"},
		{71, "❄️"},
		{77, "❄️"},
		{80, "⛈️"},
		{82, "⛈️"},
		{95, "⚡"},
		{99, "⚡"},
		{100, "🌈"},
		{-1, "🌈"},
	}
	for _, tt := range tests {
		if got := Icon(tt.code); got != tt.want {
			t.Errorf("Icon(%d) = %q; want %q", tt.code, got, tt.want)
		}
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Despejado"},
		{1, "Mayormente despejado"},
		{2, "Parcialmente nublado"},
		{3, "Nublado"},
		{45, "Niebla"},
		{48, "Niebla helada"},
		{51, "Llovizna ligera"},
		{53, "Llovizna moderada"},
		{55, "Llovizna intensa"},
		{61, "Lluvia ligera"},
		{63, "Lluvia moderada"},
		{65, "Lluvia intensa"},
		{71, "Nieve ligera"},
		{73, "Nieve moderada"},
		{75, "Nieve intensa"},
		{77, "Granizo"},
		{80, "Chubascos ligeros"},
		{81, "Chubascos moderados"},
		{82, "Chubascos intensos"},
		{95, "Tormenta eléctrica"},
		{96, "Tormenta con granizo ligero"},
		{99, "Tormenta con granizo intenso"},
		// inside an icon range but not in the table
		{47, "Condiciones variables"},
		{66, "Condiciones variables"},
		{100, "Condiciones variables"},
	}
	for _, tt := range tests {
		if got := Description(tt.code); got != tt.want {
			t.Errorf("Description(%d) = %q; want %q", tt.code, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	icon, desc := Classify(63)
	if icon != "🌧️" || desc != "Lluvia moderada" {
		t.Errorf("Classify(63) = (%q, %q)", icon, desc)
	}
}

func TestClassifyOptional(t *testing.T) {
	icon, desc := ClassifyOptional(nil)
	if icon != "🌈" || desc != "Condiciones variables" {
		t.Errorf("ClassifyOptional(nil) = (%q, %q); want fallback pair", icon, desc)
	}
	code := 0
	icon, desc = ClassifyOptional(&code)
	if icon != "☀️" || desc != "Despejado" {
		t.Errorf("ClassifyOptional(&0) = (%q, %q)", icon, desc)
	}
}
