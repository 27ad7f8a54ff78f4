package models

// InstrumentType classifies one independent legal text published in a
// gazette issue.
type InstrumentType string

const (
	TypeDecree    InstrumentType = "decree"
	TypeOrder     InstrumentType = "order"
	TypeDecision  InstrumentType = "decision"
	TypeLaw       InstrumentType = "law"
	TypeOrdinance InstrumentType = "ordinance"
)

// Anchor is a detected instrument-start position. Start points at the title
// keyword; SeparatorEnd is where the instrument's own body begins. Anchors
// from one transcript are sorted by Start and never overlap.
type Anchor struct {
	Type         InstrumentType
	Qualifier    string
	Start        int
	SeparatorEnd int
	RawTitle     string
}

// Article is one numbered unit within an instrument's operative text.
// Number is normalized ("1er" -> "1"); Header keeps the original wording.
type Article struct {
	Number  string `json:"number"`
	Header  string `json:"header"`
	Content string `json:"content"`
}

// Instrument is one parsed gazette entry. BodyStart/BodyEnd are transcript
// offsets; the body spans of consecutive instruments partition the
// post-first-anchor transcript without gaps or overlaps.
type Instrument struct {
	Type          InstrumentType
	Qualifier     string
	Title         string
	PageStart     int
	BodyStart     int
	BodyEnd       int
	PreambleText  string
	OperativeText string
	Articles      []Article
}
