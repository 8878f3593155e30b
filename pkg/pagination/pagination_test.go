package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	n := Normalize(Params{Page: -1})
	if n.Page != 0 {
		t.Fatalf("expected page 0, got %d", n.Page)
	}
	if n.PageSize != DefaultPageSize {
		t.Fatalf("expected page size %d, got %d", DefaultPageSize, n.PageSize)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 2, PageSize: 50}
	if got := p.Offset(); got != 100 {
		t.Fatalf("expected offset 100, got %d", got)
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, PageSize: 50}, 20, 120)
	if meta.Start != 1 || meta.End != 20 {
		t.Fatalf("unexpected start/end: %+v", meta)
	}
	if meta.Page != 2 || meta.TotalRows != 120 {
		t.Fatalf("unexpected page metadata: %+v", meta)
	}
}

func TestBuildMetaEmptyPage(t *testing.T) {
	meta := BuildMeta(Params{}, 0, 0)
	if meta.Start != 0 || meta.End != 0 {
		t.Fatalf("empty page should report start 0 end 0, got %+v", meta)
	}
}

func TestBuildLinksSpanningPages(t *testing.T) {
	links := BuildLinks("/api/v1/registrations?", Params{Page: 0, PageSize: 50}, 50, 120)
	if len(links) != 5 {
		t.Fatalf("expected start, end, and 3 numbered links, got %d", len(links))
	}
	if links[0].Label != "start" || links[0].Page != 0 {
		t.Fatalf("unexpected start link: %+v", links[0])
	}
	if links[1].Label != "end" || links[1].Page != 2 {
		t.Fatalf("unexpected end link: %+v", links[1])
	}
	if links[4].Label != "3" || links[4].URL != "/api/v1/registrations?page=2" {
		t.Fatalf("unexpected last link: %+v", links[4])
	}
}

func TestBuildLinksSinglePage(t *testing.T) {
	if links := BuildLinks("/api/v1/registrations?", Params{}, 12, 12); links != nil {
		t.Fatalf("single page should produce no links, got %v", links)
	}
}
