package web

import (
	"embed"
	"html/template"

	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/traffic"
)

//go:embed templates
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// views holds one template set per page, each sharing the layout.
type views struct {
	login     *template.Template
	home      *template.Template
	history   *template.Template
	favorites *template.Template
	error     *template.Template
}

func newViews(funcs template.FuncMap) (*views, error) {
	parse := func(name string) (*template.Template, error) {
		return template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
	}

	v := &views{}
	for name, dst := range map[string]**template.Template{
		"login":     &v.login,
		"home":      &v.home,
		"history":   &v.history,
		"favorites": &v.favorites,
		"error":     &v.error,
	} {
		t, err := parse(name)
		if err != nil {
			return nil, err
		}
		*dst = t
	}
	return v, nil
}

// page is the data every template receives.
type page struct {
	Title    string
	AppName  string
	User     session.User
	SignedIn bool
	Flash    *flash
	Error    string
	Fields   map[string]string
	MapsKey  string
	Data     any
}

type legendItem struct {
	Label string
	Color string
}

func (a *App) page(ctx *Context, title string) page {
	p := page{
		Title:   title,
		AppName: a.config.AppName,
		MapsKey: a.config.MapsBrowserKey,
		Flash:   a.takeFlash(ctx),
	}
	if user, ok := ctx.Session().User(); ok {
		p.User = user
		p.SignedIn = true
	}
	return p
}

func (a *App) funcs() template.FuncMap {
	return template.FuncMap{
		"levelColor": func(level int) string { return traffic.ColorOf(level).Hex() },
		"levelLabel": traffic.Label,
		"timestamp":  func(s string) string { return a.format.Timestamp(s) },
		"decimal":    func(v float64) string { return a.format.Decimal(v) },
		"number":     func(n int) string { return a.format.Number(n) },
		"legend": func() []legendItem {
			items := make([]legendItem, 0, 3)
			for _, l := range traffic.Legend() {
				items = append(items, legendItem{Label: traffic.Label(int(l)), Color: traffic.ColorOf(int(l)).Hex()})
			}
			return items
		},
	}
}
