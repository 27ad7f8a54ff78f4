package segmenter

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/llm-gazette-parser/models"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	seg, err := New(models.DefaultConfig().Segmenter)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return seg
}

const decreeTranscript = `JOURNAL OFFICIEL DE LA REPUBLIQUE
Correspondant au 5 mars 2024

Décret exécutif n° 24-102 du 5 mars 2024 portant création d'un institut national.
————————
Le Premier ministre,
Vu la Constitution, notamment ses articles 112-5° et 141 ;
Sur le rapport du ministre de la formation,
Décrète :
Article 1er. — Il est créé un institut national de la formation professionnelle des cadres.
Art. 2. — Le présent décret sera publié au Journal officiel de la République.
Fait à Alger, le 5 mars 2024.
`

func TestSegment_StandardDecree(t *testing.T) {
	seg := newTestSegmenter(t)

	res := seg.Segment(decreeTranscript, nil)

	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	inst := res.Instruments[0]

	if inst.Type != models.TypeDecree {
		t.Errorf("Type = %q, want %q", inst.Type, models.TypeDecree)
	}
	if inst.Qualifier != "exécutif" {
		t.Errorf("Qualifier = %q, want %q", inst.Qualifier, "exécutif")
	}
	if !strings.Contains(inst.Title, "24-102") {
		t.Errorf("Title = %q, want it to contain the decree number", inst.Title)
	}
	if !strings.Contains(inst.PreambleText, "Vu la Constitution") {
		t.Errorf("PreambleText = %q, want the citations", inst.PreambleText)
	}
	if strings.Contains(inst.OperativeText, "Décrète") {
		t.Errorf("OperativeText kept the trigger phrase: %q", inst.OperativeText)
	}

	if len(inst.Articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(inst.Articles))
	}
	if inst.Articles[0].Number != "1" {
		t.Errorf("Articles[0].Number = %q, want %q (ordinal normalized)", inst.Articles[0].Number, "1")
	}
	if inst.Articles[0].Header != "Article 1er" {
		t.Errorf("Articles[0].Header = %q, want %q", inst.Articles[0].Header, "Article 1er")
	}
	if inst.Articles[1].Number != "2" {
		t.Errorf("Articles[1].Number = %q, want %q", inst.Articles[1].Number, "2")
	}
	if strings.Contains(inst.Articles[1].Content, "Fait à Alger") {
		t.Errorf("signature block not trimmed: %q", inst.Articles[1].Content)
	}
}

func TestSegment_TwoInstrumentsPartitionBodies(t *testing.T) {
	text := `Décret exécutif n° 24-102 du 5 mars 2024 portant création d'un institut.
————————
Le Premier ministre,
Décrète :
Article 1er. — Premier contenu suffisamment long pour dépasser le seuil minimal des articles.
Arrêté du 12 janvier 2024 fixant les modalités d'application de certaines dispositions.
————————
Le ministre des finances,
Arrête :
Article 1er. — Second contenu suffisamment long pour dépasser le seuil minimal des articles.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if len(res.Instruments) != 2 {
		t.Fatalf("got %d instruments, want 2", len(res.Instruments))
	}
	first, second := res.Instruments[0], res.Instruments[1]

	if first.Type != models.TypeDecree || second.Type != models.TypeOrder {
		t.Errorf("types = %q, %q, want decree then order", first.Type, second.Type)
	}

	// Bodies partition the transcript: instrument 1 ends exactly where
	// instrument 2's title begins, and the last body runs to EOF.
	secondTitleStart := strings.Index(text, "Arrêté du 12")
	if first.BodyEnd != secondTitleStart {
		t.Errorf("first.BodyEnd = %d, want %d", first.BodyEnd, secondTitleStart)
	}
	if second.BodyEnd != len(text) {
		t.Errorf("second.BodyEnd = %d, want %d", second.BodyEnd, len(text))
	}
	if first.BodyStart >= first.BodyEnd || second.BodyStart >= second.BodyEnd {
		t.Errorf("degenerate body spans: [%d,%d) [%d,%d)",
			first.BodyStart, first.BodyEnd, second.BodyStart, second.BodyEnd)
	}
}

func TestSegment_PageAttribution(t *testing.T) {
	text := `==== PAGE 3 ====
Décret exécutif n° 24-102 du 5 mars 2024 portant création d'un institut.
————————
Le Premier ministre,
Décrète :
Article 1er. — Contenu suffisamment long pour dépasser le seuil minimal des articles.
`
	pageAt := func(offset int) int {
		if offset > strings.Index(text, "====") {
			return 3
		}
		return 1
	}

	seg := newTestSegmenter(t)
	res := seg.Segment(text, pageAt)

	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	if res.Instruments[0].PageStart != 3 {
		t.Errorf("PageStart = %d, want 3", res.Instruments[0].PageStart)
	}
}

func TestSegment_SeparatorWithoutKeywordSkipped(t *testing.T) {
	text := `Sommaire des matières de la présente édition
————————
Décret exécutif n° 24-102 du 5 mars 2024 portant création d'un institut.
————————
Le Premier ministre,
Décrète :
Article 1er. — Contenu suffisamment long pour dépasser le seuil minimal des articles.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if res.Stats.SeparatorsSkipped != 1 {
		t.Errorf("SeparatorsSkipped = %d, want 1", res.Stats.SeparatorsSkipped)
	}
	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
}

func TestSegment_ForwardFallbackWithoutSeparators(t *testing.T) {
	text := `Décret exécutif n° 24-50 du 1 février 2024 portant organisation des services centraux.
Le Premier ministre,
Vu le décret exécutif n° 20-93 du 30 mars 2020 portant les mêmes dispositions ;
Décrète :
Article 1er. — Les services sont réorganisés selon les modalités fixées par le présent texte.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if res.Stats.CitationsFiltered != 1 {
		t.Errorf("CitationsFiltered = %d, want 1 (the «Vu le décret …» reference)", res.Stats.CitationsFiltered)
	}
	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	inst := res.Instruments[0]
	if !strings.Contains(inst.Title, "24-50") {
		t.Errorf("Title = %q, want the decree number", inst.Title)
	}
	if len(inst.Articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(inst.Articles))
	}
	// The filtered citation stays inside this instrument's preamble.
	if !strings.Contains(inst.PreambleText, "20-93") {
		t.Errorf("PreambleText = %q, want the cited decree retained", inst.PreambleText)
	}
}

func TestSegment_NoTriggerNoArticles(t *testing.T) {
	text := `Décision du 20 avril 2024 portant désignation des membres de la commission.
————————
Sont désignés membres de la commission les personnes dont les noms suivent, pour une durée de trois années renouvelable une seule fois.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	inst := res.Instruments[0]
	if inst.Type != models.TypeDecision {
		t.Errorf("Type = %q, want %q", inst.Type, models.TypeDecision)
	}
	if inst.OperativeText != "" {
		t.Errorf("OperativeText = %q, want empty without a trigger or article", inst.OperativeText)
	}
	if !strings.Contains(inst.PreambleText, "Sont désignés") {
		t.Errorf("PreambleText = %q, want the whole body", inst.PreambleText)
	}
	if len(inst.Articles) != 0 {
		t.Errorf("got %d articles, want 0", len(inst.Articles))
	}
}

func TestSegment_ShortBodyDropped(t *testing.T) {
	text := `Décret exécutif n° 24-102 du 5 mars 2024 portant création.
————————
Texte court.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if len(res.Instruments) != 0 {
		t.Fatalf("got %d instruments, want 0", len(res.Instruments))
	}
	if res.Stats.BodiesDropped != 1 {
		t.Errorf("BodiesDropped = %d, want 1", res.Stats.BodiesDropped)
	}
}

func TestSegment_InlineArticleReferenceDoesNotSplit(t *testing.T) {
	text := `Décret exécutif n° 24-102 du 5 mars 2024 portant application de la Constitution.
————————
Le Premier ministre,
Décrète :
Article 1er. — Les dispositions prises conformément à l'article 26 de la Constitution restent applicables dans leur intégralité.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	arts := res.Instruments[0].Articles
	if len(arts) != 1 {
		t.Fatalf("got %d articles, want 1 (inline reference must not split)", len(arts))
	}
	if !strings.Contains(arts[0].Content, "l'article 26") {
		t.Errorf("Content = %q, want the inline reference kept", arts[0].Content)
	}
}

func TestSegment_KeywordInsideWordDoesNotAnchor(t *testing.T) {
	text := `Décret exécutif n° 24-102 du 5 mars 2024 portant organisation de l'emploi du temps scolaire.
————————
Le Premier ministre,
Décrète :
Article 1er. — Contenu suffisamment long pour dépasser le seuil minimal des articles.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	inst := res.Instruments[0]
	if inst.Type != models.TypeDecree {
		t.Errorf("Type = %q, want %q («emploi du» must not anchor as a law)", inst.Type, models.TypeDecree)
	}
	if !strings.Contains(inst.Title, "24-102") || !strings.Contains(inst.Title, "l'emploi du temps") {
		t.Errorf("Title = %q, want the full decree title", inst.Title)
	}
}

func TestSegment_ForwardFallbackKeywordInsideWord(t *testing.T) {
	text := `Décret exécutif n° 24-50 du 1 février 2024 portant organisation des services centraux.
Le Premier ministre,
Décrète :
Article 1er. — L'organisation de l'emploi du temps des services déconcentrés est fixée pour chaque exercice par le présent texte.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	arts := res.Instruments[0].Articles
	if len(arts) != 1 {
		t.Fatalf("got %d articles, want 1", len(arts))
	}
	if !strings.Contains(arts[0].Content, "par le présent texte") {
		t.Errorf("Content = %q, want it intact («l'emploi du» must not open a new instrument)", arts[0].Content)
	}
	if res.Stats.BodiesDropped != 0 {
		t.Errorf("BodiesDropped = %d, want 0", res.Stats.BodiesDropped)
	}
}

func TestSegment_DuplicateArticleNumbersPreserved(t *testing.T) {
	text := `Arrêté du 12 janvier 2024 fixant les modalités d'application.
————————
Le ministre des finances,
Arrête :
Art. 2. — Première occurrence du numéro deux, conservée telle quelle dans l'ordre d'apparition.
Art. 2. — Seconde occurrence du même numéro, conservée aussi sans correction ni fusion.
`
	seg := newTestSegmenter(t)
	res := seg.Segment(text, nil)

	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	arts := res.Instruments[0].Articles
	if len(arts) != 2 {
		t.Fatalf("got %d articles, want 2", len(arts))
	}
	if arts[0].Number != "2" || arts[1].Number != "2" {
		t.Errorf("numbers = %q, %q, want duplicates preserved", arts[0].Number, arts[1].Number)
	}
	if !strings.Contains(arts[0].Content, "Première") || !strings.Contains(arts[1].Content, "Seconde") {
		t.Errorf("appearance order lost: %q / %q", arts[0].Content, arts[1].Content)
	}
}

func TestSegment_Idempotent(t *testing.T) {
	seg := newTestSegmenter(t)

	first := seg.Segment(decreeTranscript, nil)
	second := seg.Segment(decreeTranscript, nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated segmentation of the same transcript diverged")
	}
}

func TestSegment_IncludeTypesFilterKeepsBoundaries(t *testing.T) {
	text := `Décret exécutif n° 24-102 du 5 mars 2024 portant création d'un institut.
————————
Le Premier ministre,
Décrète :
Article 1er. — Premier contenu suffisamment long pour dépasser le seuil minimal des articles.
Arrêté du 12 janvier 2024 fixant les modalités d'application de certaines dispositions.
————————
Le ministre des finances,
Arrête :
Article 1er. — Second contenu suffisamment long pour dépasser le seuil minimal des articles.
`
	cfg := models.DefaultConfig().Segmenter
	cfg.IncludeTypes = []models.InstrumentType{models.TypeOrder}
	seg, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := seg.Segment(text, nil)
	if len(res.Instruments) != 1 {
		t.Fatalf("got %d instruments, want 1", len(res.Instruments))
	}
	inst := res.Instruments[0]
	if inst.Type != models.TypeOrder {
		t.Errorf("Type = %q, want order", inst.Type)
	}
	// The excluded decree's body must not bleed into the order.
	if strings.Contains(text[inst.BodyStart:inst.BodyEnd], "Premier contenu") {
		t.Error("excluded instrument's body leaked into the kept one")
	}
}

func TestFilterCitations_SmartQuoteVariant(t *testing.T) {
	rules, err := CompileRules(models.DefaultConfig().Segmenter)
	if err != nil {
		t.Fatalf("CompileRules() error = %v", err)
	}

	text := `Considérant ce qui suit ; Vu l’arrêté du 7 juin 2023 relatif aux examens ;`
	start := strings.Index(text, "arrêté")

	anchors := []models.Anchor{{Type: models.TypeOrder, Start: start}}
	kept, dropped := filterCitations(text, anchors, rules)

	if dropped != 1 || len(kept) != 0 {
		t.Errorf("kept=%d dropped=%d, want the smart-quote «Vu l’» marker to filter", len(kept), dropped)
	}
}

func TestFilterCitations_UnlistedVariantSurvives(t *testing.T) {
	cfg := models.DefaultConfig().Segmenter
	cfg.CitationMarkers = []string{"vu le", "vu l'"}
	rules, err := CompileRules(cfg)
	if err != nil {
		t.Fatalf("CompileRules() error = %v", err)
	}

	// Smart quote not in the configured marker list: documented false accept.
	text := `Vu l’arrêté du 7 juin 2023 relatif aux examens ;`
	start := strings.Index(text, "arrêté")

	anchors := []models.Anchor{{Type: models.TypeOrder, Start: start}}
	kept, dropped := filterCitations(text, anchors, rules)

	if dropped != 0 || len(kept) != 1 {
		t.Errorf("kept=%d dropped=%d, want unlisted variant to pass through", len(kept), dropped)
	}
}

func TestCompileRules_InvalidPattern(t *testing.T) {
	cfg := models.DefaultConfig().Segmenter
	cfg.SeparatorPattern = `[unclosed`
	if _, err := CompileRules(cfg); err == nil {
		t.Error("CompileRules() accepted an invalid separator pattern")
	}
}

func TestCompileRules_NoKeywords(t *testing.T) {
	cfg := models.DefaultConfig().Segmenter
	cfg.Keywords = nil
	if _, err := CompileRules(cfg); err == nil {
		t.Error("CompileRules() accepted an empty keyword list")
	}
}

func TestSegment_EmptyTranscript(t *testing.T) {
	seg := newTestSegmenter(t)
	res := seg.Segment("", nil)
	if len(res.Instruments) != 0 {
		t.Errorf("got %d instruments from empty input, want 0", len(res.Instruments))
	}
}
