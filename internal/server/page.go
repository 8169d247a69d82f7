package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pfrederiksen/cc-courses/internal/filter"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

const pageTitle = "Colorado College Course Search"

type pageLink struct {
	Page    int
	URL     string
	Current bool
}

type pageData struct {
	Title    string
	Criteria filter.Criteria
	SortKey  schedule.SortKey
	Terms    []filter.Option
	Blocks   []filter.Option
	Programs []filter.Option
	SortKeys []sortOption

	Error    string
	Loaded   bool
	View     schedule.View
	Header   template.HTML
	Rows     []template.HTML
	Describe string
	Filtered bool

	PrevURL string
	NextURL string
	Pages   []pageLink
}

type sortOption struct {
	Key   schedule.SortKey
	Label string
}

var templateFuncs = template.FuncMap{
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := filter.ParseCriteria(q)
	key := schedule.ParseSortKey(q.Get("sort"))
	page, _ := strconv.Atoi(q.Get("page"))

	data := pageData{
		Title:    pageTitle,
		Criteria: c,
		SortKey:  key,
		Terms:    filter.Terms,
		Blocks:   filter.Blocks,
		Programs: filter.Programs,
		Describe: c.Describe(),
		Filtered: !c.IsEmpty(),
	}
	for _, k := range schedule.SortKeys {
		data.SortKeys = append(data.SortKeys, sortOption{Key: k.Key, Label: k.Label})
	}

	status := http.StatusOK
	rows, err := s.rows(r.Context())
	if err != nil {
		status, data.Error = classifyFetchError(err)
		if status != http.StatusNotFound {
			data.Error = "Failed to load course data"
		}
	} else {
		state := schedule.NewState(rows).WithCriteria(c).WithSort(key).GoTo(page)
		s.fillView(&data, state.View(), q)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		logger.Error("rendering page", nil, err)
	}
}

// fillView adds the rendered rows and pagination links. Row markup comes
// from the upstream table and is rendered as-is.
func (s *Server) fillView(data *pageData, v schedule.View, q url.Values) {
	data.Loaded = true
	data.View = v
	if v.Header != nil {
		data.Header = template.HTML(v.Header.RawMarkup)
	}
	for _, r := range v.Rows {
		data.Rows = append(data.Rows, template.HTML(r.RawMarkup))
	}

	if v.HasPrev() {
		data.PrevURL = pageURL(q, v.Page-1)
	}
	if v.HasNext() {
		data.NextURL = pageURL(q, v.Page+1)
	}
	for _, n := range v.Buttons {
		data.Pages = append(data.Pages, pageLink{Page: n, URL: pageURL(q, n), Current: n == v.Page})
	}
}

func pageURL(q url.Values, page int) string {
	out := url.Values{}
	for k, v := range q {
		out[k] = v
	}
	out.Set("page", strconv.Itoa(page))
	return "/?" + out.Encode()
}
