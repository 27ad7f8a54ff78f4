package normalizer

import (
	"regexp"
	"strings"
	"testing"
)

var pageMarkerRe = regexp.MustCompile(`==== PAGE (\d+) ====`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "crlf to lf",
			in:   "ligne une\r\nligne deux",
			want: "ligne une\nligne deux",
		},
		{
			name: "space runs collapsed",
			in:   "Décret   exécutif \t n° 24-102",
			want: "Décret exécutif n° 24-102",
		},
		{
			name: "blank line runs collapsed",
			in:   "alpha\n\n\n\n\nbeta",
			want: "alpha\n\nbeta",
		},
		{
			name: "control runes stripped",
			in:   "page\x0csuivante",
			want: "pagesuivante",
		},
		{
			name: "combining accent composed",
			in:   "Décret",
			want: "Décret",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  \n texte \n ",
			want: "texte",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_KeepsPageMarkers(t *testing.T) {
	in := "avant\n==== PAGE 7 ====\naprès"
	got := Normalize(in)
	if !strings.Contains(got, "==== PAGE 7 ====") {
		t.Errorf("Normalize() destroyed the page marker: %q", got)
	}
}

func TestPageIndex(t *testing.T) {
	text := "entête\n==== PAGE 3 ====\ncorps de la page trois\n==== PAGE 4 ====\ncorps de la page quatre"
	idx := BuildPageIndex(text, pageMarkerRe)

	if idx.Markers() != 2 {
		t.Fatalf("Markers() = %d, want 2", idx.Markers())
	}

	if got := idx.PageAt(0); got != 1 {
		t.Errorf("PageAt(0) = %d, want 1 before any marker", got)
	}
	if got := idx.PageAt(strings.Index(text, "trois")); got != 3 {
		t.Errorf("PageAt(trois) = %d, want 3", got)
	}
	if got := idx.PageAt(strings.Index(text, "quatre")); got != 4 {
		t.Errorf("PageAt(quatre) = %d, want 4", got)
	}
	if got := idx.PageAt(len(text)); got != 4 {
		t.Errorf("PageAt(end) = %d, want 4", got)
	}
}

func TestPageIndex_Monotone(t *testing.T) {
	text := "a\n==== PAGE 2 ====\nb\n==== PAGE 5 ====\nc\n==== PAGE 9 ====\nd"
	idx := BuildPageIndex(text, pageMarkerRe)

	prev := 0
	for offset := 0; offset <= len(text); offset++ {
		page := idx.PageAt(offset)
		if page < prev {
			t.Fatalf("PageAt regressed at offset %d: %d after %d", offset, page, prev)
		}
		prev = page
	}
}

func TestPageIndex_NoMarkers(t *testing.T) {
	idx := BuildPageIndex("transcript sans marqueurs de page", pageMarkerRe)
	if idx.Markers() != 0 {
		t.Fatalf("Markers() = %d, want 0", idx.Markers())
	}
	if got := idx.PageAt(10); got != 1 {
		t.Errorf("PageAt(10) = %d, want default page 1", got)
	}
}

func TestJournalDate(t *testing.T) {
	dateRe := regexp.MustCompile(`(?i)Correspondant\s+au\s+(\d{1,2}\s+\S+\s+\d{4})`)

	text := "JOURNAL OFFICIEL\n22 Rajab 1445\nCorrespondant au 2 février 2024\n\ncontenu"
	if got := JournalDate(text, dateRe); got != "2 février 2024" {
		t.Errorf("JournalDate() = %q, want %q", got, "2 février 2024")
	}

	if got := JournalDate("transcript sans date", dateRe); got != "" {
		t.Errorf("JournalDate() = %q, want empty when absent", got)
	}
}
