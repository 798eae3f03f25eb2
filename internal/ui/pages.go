package ui

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	"github.com/scoutreport/activityform/internal/ctxkeys"
	"github.com/scoutreport/activityform/internal/flash"
	"github.com/scoutreport/activityform/internal/markdown"
	"github.com/scoutreport/activityform/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var paragraphs = markdown.NewParser()

var funcs = template.FuncMap{
	"cn":        twmerge.Merge,
	"paragraph": paragraphs.Paragraph,
	"int":       func(s model.CheckedState) int { return int(s) },
	"formatTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"navClass": func(current, target string) string {
		if current == target {
			return twmerge.Merge(navBase, "text-slate-900 font-medium")
		}
		return navBase
	},
	"flashClass": func(category string) string {
		if category == flash.CategoryError {
			return twmerge.Merge(flashBase, "border-red-300 bg-red-50 text-red-800")
		}
		return twmerge.Merge(flashBase, "border-emerald-300 bg-emerald-50 text-emerald-800")
	},
	"statusClass": func(s model.CheckedState) string {
		switch s {
		case model.CheckedReviewed:
			return twmerge.Merge(badgeBase, "bg-emerald-100 text-emerald-800")
		case model.CheckedEdited:
			return twmerge.Merge(badgeBase, "bg-amber-100 text-amber-800")
		default:
			return twmerge.Merge(badgeBase, "bg-slate-100 text-slate-700")
		}
	},
}

const (
	navBase   = "text-slate-600 hover:text-slate-900"
	flashBase = "mb-4 rounded border px-4 py-3"
	badgeBase = "rounded-full px-2 py-0.5 text-xs font-medium text-slate-700"
)

var pages = map[string]*template.Template{
	"form":     parse("form.html", "fields.html"),
	"list":     parse("list.html"),
	"edit":     parse("edit.html", "fields.html"),
	"uptime":   parse("uptime.html"),
	"notfound": parse("notfound.html"),
}

func parse(files ...string) *template.Template {
	patterns := []string{"templates/layout.html"}
	for _, f := range files {
		patterns = append(patterns, "templates/"+f)
	}
	return template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, patterns...))
}

// Page is what every template receives; Data holds the page's own view.
type Page struct {
	Title     string
	AppName   string
	Path      string
	CSRFToken string
	Nonce     string
	Flash     *flash.Message
	Data      any
}

func page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := Page{
			Title:     title,
			AppName:   "Activity Report",
			Path:      ctxkeys.URLPath(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Nonce:     templ.GetNonce(ctx),
			Flash:     ctxkeys.Flash(ctx),
			Data:      data,
		}
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			p.AppName = cfg.AppName
		}
		return templ.FromGoHTML(pages[name], p).Render(ctx, w)
	})
}

// Fields backs the shared activity inputs of the form and edit pages.
type Fields struct {
	Date         string
	Group        string
	ActivityType string
	Place        string
	TimeOfDay    string
	Occasion     string
	Cost         int
	Leaders      int
	Cubs         int
	Scouts       int
	Rovers       int
	NonScouts    int
	Paragraphs   []string
	Groups       []string
}

func FieldsFrom(a *model.Activity, groups []string) Fields {
	return Fields{
		Date:         a.Date,
		Group:        a.GroupName,
		ActivityType: a.ActivityType,
		Place:        a.Place,
		TimeOfDay:    a.TimeOfDay,
		Occasion:     a.Occasion,
		Cost:         a.Cost,
		Leaders:      a.Leaders,
		Cubs:         a.Cubs,
		Scouts:       a.Scouts,
		Rovers:       a.Rovers,
		NonScouts:    a.NonScouts,
		Paragraphs:   a.ParagraphList(),
		Groups:       groups,
	}
}

type FormView struct {
	Fields Fields
}

type ListFilter struct {
	Start  string
	End    string
	Group  string
	Query  string
	Status string
}

type ListView struct {
	Activities []*model.Activity
	Groups     []string
	Filter     ListFilter
	Statuses   []string
}

type AttachmentLink struct {
	Name string
	URL  string
}

type EditView struct {
	ID          int64
	Fields      Fields
	Attachments []AttachmentLink
}

func FormPage(v FormView) templ.Component {
	return page("form", "New report", v)
}

func ActivitiesPage(v ListView) templ.Component {
	v.Statuses = []string{
		model.CheckedNone.String(),
		model.CheckedReviewed.String(),
		model.CheckedEdited.String(),
	}
	return page("list", "Activities", v)
}

func EditPage(v EditView) templ.Component {
	return page("edit", "Edit activity", v)
}

func UptimePage() templ.Component {
	return page("uptime", "Uptime", nil)
}

func NotFoundPage() templ.Component {
	return page("notfound", "Not found", nil)
}
