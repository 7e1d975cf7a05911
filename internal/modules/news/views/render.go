package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"

	"nimbus-web/internal/modules/news/service"
	"nimbus-web/internal/navigation"
	"nimbus-web/internal/web"
)

var newsTmpl *template.Template

var errNotLoaded = errors.New("news templates not loaded: call views.LoadTemplates during startup")

// Categories are the menu entries, in display order.
var Categories = []navigation.Entry{
	{Key: "general", Label: "General"},
	{Key: "tecnologia", Label: "Tecnología"},
	{Key: "deportes", Label: "Deportes"},
	{Key: "negocios", Label: "Negocios"},
	{Key: "ciencia", Label: "Ciencia"},
	{Key: "salud", Label: "Salud"},
	{Key: "entretenimiento", Label: "Entretenimiento"},
}

func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	newsTmpl, err = web.Parse(sub, "*.html", "partials/*.html")
	return err
}

// LoadTemplates loads embedded news templates. Call during startup.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

type NavData struct {
	Items []navigation.Item
	OOB   bool
}

type PageData struct {
	Page     web.Page
	Title    string
	Category string
	Nav      NavData
}

type NewsData struct {
	service.Result
	Title string
	Nav   NavData
}

// Title is "Noticias {Category}".
func Title(category string) string {
	return "Noticias " + navigation.Capitalize(category)
}

func NewPageData(category string) PageData {
	return PageData{
		Page:     web.Page{Title: "Noticias", Section: web.SectionNews},
		Title:    "📰 Noticias",
		Category: category,
		Nav:      NavData{Items: navigation.Items(Categories, category)},
	}
}

func NewNewsData(res service.Result) NewsData {
	data := NewsData{Result: res}
	if res.Decoded() {
		data.Title = Title(res.Category)
		data.Nav = NavData{Items: navigation.Items(Categories, res.Category), OOB: true}
	}
	return data
}

func RenderPage(w io.Writer, data PageData) error {
	if newsTmpl == nil {
		return errNotLoaded
	}
	return newsTmpl.ExecuteTemplate(w, "news-page", data)
}

// RenderNewsPartial executes the article list (or its empty, missing key and
// failure states) for an htmx swap.
func RenderNewsPartial(w io.Writer, data NewsData) error {
	if newsTmpl == nil {
		return errNotLoaded
	}
	return newsTmpl.ExecuteTemplate(w, "news-partial", data)
}
