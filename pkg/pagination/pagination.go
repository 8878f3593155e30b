// Package pagination implements the zero-based paging contract used by the
// registration query endpoints.
package pagination

import "fmt"

// DefaultPageSize is the standard page size when one is not configured.
const DefaultPageSize = 50

// Params holds paging inputs from controllers or services. Page is
// zero-based.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes one slice of a result set. Start and End are one-based row
// positions within the page; Start is 0 when the page is empty.
type Meta struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	Page      int `json:"page"`
	TotalRows int `json:"totalRows"`
}

// Link points at one page of the result set.
type Link struct {
	Label string `json:"label"`
	Page  int    `json:"page"`
	URL   string `json:"url"`
}

// Normalize clamps the params to sane values.
func Normalize(p Params) Params {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := Normalize(p)
	return n.Page * n.PageSize
}

// BuildMeta computes page metadata for the rows actually returned.
func BuildMeta(p Params, pageRows, totalRows int) Meta {
	n := Normalize(p)
	start := 0
	if pageRows > 0 {
		start = 1
	}
	return Meta{
		Start:     start,
		End:       pageRows,
		Page:      n.Page,
		TotalRows: totalRows,
	}
}

// TotalPages returns the page count for a total row count, at least 1.
func TotalPages(p Params, totalRows int) int {
	n := Normalize(p)
	pages := (totalRows + n.PageSize - 1) / n.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// BuildLinks renders the page-link descriptors: start, end, and one numbered
// link per page. Links are only emitted when the result spans more than one
// page.
func BuildLinks(baseURL string, p Params, pageRows, totalRows int) []Link {
	if pageRows >= totalRows {
		return nil
	}
	total := TotalPages(p, totalRows)
	links := make([]Link, 0, total+2)
	links = append(links,
		Link{Label: "start", Page: 0, URL: pageURL(baseURL, 0)},
		Link{Label: "end", Page: total - 1, URL: pageURL(baseURL, total-1)},
	)
	for i := 0; i < total; i++ {
		links = append(links, Link{
			Label: fmt.Sprintf("%d", i+1),
			Page:  i,
			URL:   pageURL(baseURL, i),
		})
	}
	return links
}

func pageURL(baseURL string, page int) string {
	return fmt.Sprintf("%spage=%d", baseURL, page)
}
