package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"

	"nimbus-web/internal/modules/weather/service"
	"nimbus-web/internal/modules/weather/types"
	"nimbus-web/internal/navigation"
	"nimbus-web/internal/web"
)

var weatherTmpl *template.Template

var errNotLoaded = errors.New("weather templates not loaded: call views.LoadTemplates during startup")

// loadTemplatesFromFS loads weather templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	weatherTmpl, err = web.Parse(sub, "*.html", "partials/*.html")
	return err
}

// LoadTemplates loads embedded weather templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// NavData is the zone menu. OOB marks it for an out-of-band htmx swap.
type NavData struct {
	Items []navigation.Item
	OOB   bool
}

type PageData struct {
	Page     web.Page
	Zone     string
	Subtitle string
	Nav      NavData
}

type ZoneData struct {
	Key      string
	Found    bool
	Subtitle string
	Cards    []service.Card
	Nav      NavData
}

// ZoneEntries lists the zones of d followed by the "todas" entry.
func ZoneEntries(d *types.Directory) []navigation.Entry {
	zones := d.Zones()
	out := make([]navigation.Entry, 0, len(zones)+1)
	for _, z := range zones {
		out = append(out, navigation.Entry{Key: z.Key, Label: z.Label})
	}
	return append(out, navigation.Entry{Key: types.AllZonesKey, Label: "Todas"})
}

// ZoneTitle is "Todas las Zonas" for the union and "Zona {Key}" otherwise.
func ZoneTitle(key string) string {
	if key == types.AllZonesKey {
		return "Todas las Zonas"
	}
	return "Zona " + navigation.Capitalize(key)
}

func Subtitle(key string) string {
	return "Clima en " + ZoneTitle(key)
}

// NewPageData builds the full weather page. The subtitle and active entry are
// only set for a known zone; the zone partial updates both once it loads.
func NewPageData(entries []navigation.Entry, zone string, known bool) PageData {
	selected := ""
	subtitle := "Clima en Mendoza"
	if known {
		selected = zone
		subtitle = Subtitle(zone)
	}
	return PageData{
		Page:     web.Page{Title: "Clima", Section: web.SectionWeather},
		Zone:     zone,
		Subtitle: subtitle,
		Nav:      NavData{Items: navigation.Items(entries, selected)},
	}
}

func NewZoneData(entries []navigation.Entry, res service.ZoneResult) ZoneData {
	data := ZoneData{Key: res.Key, Found: res.Found, Cards: res.Cards}
	if res.Found {
		data.Subtitle = Subtitle(res.Key)
		data.Nav = NavData{Items: navigation.Items(entries, res.Key), OOB: true}
	}
	return data
}

func RenderPage(w io.Writer, data PageData) error {
	if weatherTmpl == nil {
		return errNotLoaded
	}
	return weatherTmpl.ExecuteTemplate(w, "weather-page", data)
}

// RenderZonePartial executes only the zone cards (plus out-of-band title and
// nav) for an htmx swap.
func RenderZonePartial(w io.Writer, data ZoneData) error {
	if weatherTmpl == nil {
		return errNotLoaded
	}
	return weatherTmpl.ExecuteTemplate(w, "zone-partial", data)
}

func RenderLocationPartial(w io.Writer, data service.LocationResult) error {
	if weatherTmpl == nil {
		return errNotLoaded
	}
	return weatherTmpl.ExecuteTemplate(w, "location-partial", data)
}
