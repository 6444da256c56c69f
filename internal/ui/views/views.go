// Package views renders the console's pages and the fragments patched over
// SSE. Templates are embedded and exposed as templ components.
package views

import (
	"embed"
	"encoding/json"
	"html/template"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/contratos/internal/ui/resources"
)

// DatastarScript is the datastar client bundle.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("views").Funcs(template.FuncMap{
	"static":   resources.StaticPath,
	"datastar": func() string { return DatastarScript },
	"itoa":     strconv.Itoa,
	"json":     toJSON,
}).ParseFS(templateFS, "templates/*.html"))

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

// Shell holds what every full page needs around its content.
type Shell struct {
	Title       string
	CurrentPath string
	UserName    string
	IsDev       bool
}

// NavItem is one entry of the top navigation.
type NavItem struct {
	Href   string
	Label  string
	Active bool
}

// Nav returns the navigation entries with the current one marked.
func (s Shell) Nav() []NavItem {
	items := []NavItem{
		{Href: "/inicio", Label: "Início"},
		{Href: "/contratos", Label: "Contratos"},
		{Href: "/empresas", Label: "Empresas"},
		{Href: "/usuarios", Label: "Usuários"},
	}
	for i := range items {
		items[i].Active = items[i].Href == s.CurrentPath
	}
	return items
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}
