package apkg

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/deckforge/pkg/core"
)

// defaultDeckID is the deck every collection carries; user decks must not reuse it.
const defaultDeckID = 1

const defaultCSS = `.card {
 font-family: arial;
 font-size: 20px;
 text-align: center;
 color: black;
 background-color: white;
}
`

type fieldJSON struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Font   string   `json:"font"`
	Media  []string `json:"media"`
	RTL    bool     `json:"rtl"`
	Size   int      `json:"size"`
	Sticky bool     `json:"sticky"`
}

type templateJSON struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
	Bfont string `json:"bfont"`
	Bsize int    `json:"bsize"`
}

type modelJSON struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      int            `json:"type"`
	Mod       int64          `json:"mod"`
	Usn       int            `json:"usn"`
	Sortf     int            `json:"sortf"`
	Did       int64          `json:"did"`
	Tmpls     []templateJSON `json:"tmpls"`
	Flds      []fieldJSON    `json:"flds"`
	CSS       string         `json:"css"`
	LatexPre  string         `json:"latexPre"`
	LatexPost string         `json:"latexPost"`
	LatexSVG  bool           `json:"latexsvg"`
	Req       [][]any        `json:"req"`
	Tags      []string       `json:"tags"`
	Vers      []int          `json:"vers"`
}

type deckJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Mod       int64  `json:"mod"`
	Usn       int    `json:"usn"`
	Conf      int    `json:"conf"`
	Dyn       int    `json:"dyn"`
	Collapsed bool   `json:"collapsed"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
}

type dconfJSON struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Mod      int64          `json:"mod"`
	Usn      int            `json:"usn"`
	Dyn      bool           `json:"dyn"`
	MaxTaken int            `json:"maxTaken"`
	Timer    int            `json:"timer"`
	Autoplay bool           `json:"autoplay"`
	Replayq  bool           `json:"replayq"`
	New      map[string]any `json:"new"`
	Rev      map[string]any `json:"rev"`
	Lapse    map[string]any `json:"lapse"`
}

type confJSON struct {
	ActiveDecks   []int64 `json:"activeDecks"`
	CurDeck       int64   `json:"curDeck"`
	CurModel      *string `json:"curModel"`
	NewSpread     int     `json:"newSpread"`
	CollapseTime  int     `json:"collapseTime"`
	TimeLim       int     `json:"timeLim"`
	EstTimes      bool    `json:"estTimes"`
	DueCounts     bool    `json:"dueCounts"`
	NextPos       int     `json:"nextPos"`
	SortType      string  `json:"sortType"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
}

var noteFields = []core.Field{core.FieldLeft, core.FieldRight}

func fieldRef(f core.Field) string {
	return "{{" + f.String() + "}}"
}

// modelFor renders the note type of a variant in collection JSON form.
func modelFor(v core.Variant, mod int64) modelJSON {
	m := v.Model()
	out := modelJSON{
		ID:    m.ID,
		Name:  m.Name,
		Mod:   mod,
		Usn:   -1,
		Did:   defaultDeckID,
		CSS:   defaultCSS,
		Tags:  []string{},
		Vers:  []int{},
		Flds:  make([]fieldJSON, 0, len(noteFields)),
		Tmpls: make([]templateJSON, 0, len(m.Templates)),
		LatexPre: "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n" +
			"\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n" +
			"\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		LatexPost: "\\end{document}",
	}
	for i, f := range noteFields {
		out.Flds = append(out.Flds, fieldJSON{
			Name:  f.String(),
			Ord:   i,
			Font:  "Arial",
			Media: []string{},
			Size:  20,
		})
	}
	for i, t := range m.Templates {
		out.Tmpls = append(out.Tmpls, templateJSON{
			Name: t.Name,
			Ord:  i,
			Qfmt: fieldRef(t.Prompt),
			Afmt: fieldRef(t.Prompt) + `<hr id="answer">` + fieldRef(t.Answer),
		})
		out.Req = append(out.Req, []any{i, "all", []int{int(t.Prompt)}})
	}
	return out
}

func deckFor(id int64, name string, mod int64) deckJSON {
	return deckJSON{
		ID:        id,
		Name:      name,
		Mod:       mod,
		Usn:       -1,
		Conf:      1,
		ExtendRev: 50,
	}
}

func defaultDconf(mod int64) dconfJSON {
	return dconfJSON{
		ID:       1,
		Name:     "Default",
		Mod:      mod,
		MaxTaken: 60,
		Autoplay: true,
		Replayq:  true,
		New: map[string]any{
			"bury":          true,
			"delays":        []int{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		Rev: map[string]any{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
		Lapse: map[string]any{
			"delays":      []int{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
	}
}

var (
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlBlock   = regexp.MustCompile(`(?si)<(style|script).*?>.*?</(style|script)>`)
	htmlTag     = regexp.MustCompile(`(?s)<.*?>`)
)

// stripHTML reduces a field to the plain text Anki checksums.
func stripHTML(s string) string {
	s = htmlComment.ReplaceAllString(s, "")
	s = htmlBlock.ReplaceAllString(s, "")
	s = htmlTag.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// fieldChecksum is the first 32 bits of the SHA-1 of the stripped sort field.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(stripHTML(field)))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return n
}
