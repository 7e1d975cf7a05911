package types

// AllZonesKey selects every city of every zone, in directory order.
const AllZonesKey = "todas"

type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Zone struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Cities []City `json:"cities"`
}

// Directory is the immutable zone/city snapshot loaded at startup.
type Directory struct {
	zones []Zone
}

// NewDirectory copies zones so later changes to the input are not observed.
func NewDirectory(zones []Zone) *Directory {
	return &Directory{zones: copyZones(zones)}
}

// Zones returns a copy of the zones in directory order.
func (d *Directory) Zones() []Zone {
	return copyZones(d.zones)
}

// Resolve returns the ordered cities for key. "todas" is the concatenation of
// every zone in order. Unknown keys report ok=false.
func (d *Directory) Resolve(key string) (cities []City, ok bool) {
	if key == AllZonesKey {
		for _, z := range d.zones {
			cities = append(cities, z.Cities...)
		}
		return cities, len(cities) > 0
	}
	for _, z := range d.zones {
		if z.Key == key {
			out := make([]City, len(z.Cities))
			copy(out, z.Cities)
			return out, len(out) > 0
		}
	}
	return nil, false
}

func copyZones(in []Zone) []Zone {
	out := make([]Zone, len(in))
	for i, z := range in {
		cities := make([]City, len(z.Cities))
		copy(cities, z.Cities)
		out[i] = Zone{Key: z.Key, Label: z.Label, Cities: cities}
	}
	return out
}
