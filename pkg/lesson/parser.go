// Package lesson reads and writes the pipe-delimited lesson format.
//
// A lesson file starts with a "<number> | <name>" header. Each following
// block of non-blank lines is a section: a one-bar "<number> | <name>" line
// followed by two-bar "<number> | <left> | <right>" notes. Blank lines close
// the current section.
package lesson

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/aretw0/deckforge/pkg/core"
)

// Separator splits the fields of a line.
const Separator = "|"

const maxLineSize = 1 << 20

type options struct {
	normalize bool
	source    string
}

// Option configures the parser.
type Option func(*options)

// WithNormalization toggles NFC normalization of every field. Enabled by default.
func WithNormalization(enabled bool) Option {
	return func(o *options) {
		o.normalize = enabled
	}
}

// WithSource records the file the lines came from on the record and on errors.
func WithSource(path string) Option {
	return func(o *options) {
		o.source = path
	}
}

type state int

const (
	expectHeader state = iota
	noActiveSection
	inSection
)

// parser is the line-by-line state machine for one lesson.
type parser struct {
	opts    options
	state   state
	line    int
	rec     core.LessonRecord
	current int            // index of the open section in rec.Sections
	numbers map[string]int // section number -> line it was declared on
}

// Parse reads a whole lesson from r.
func Parse(r io.Reader, opts ...Option) (core.LessonRecord, error) {
	p := newParser(opts)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := p.feed(scanner.Text()); err != nil {
			return core.LessonRecord{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return core.LessonRecord{}, fmt.Errorf("read lesson: %w", err)
	}
	return p.finish()
}

// ParseLines parses a lesson already split into lines.
func ParseLines(lines []string, opts ...Option) (core.LessonRecord, error) {
	p := newParser(opts)
	for _, line := range lines {
		if err := p.feed(line); err != nil {
			return core.LessonRecord{}, err
		}
	}
	return p.finish()
}

func newParser(opts []Option) *parser {
	o := options{normalize: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &parser{
		opts:    o,
		current: -1,
		numbers: make(map[string]int),
		rec:     core.LessonRecord{Source: o.source},
	}
}

func (p *parser) feed(raw string) error {
	p.line++
	line := strings.TrimSpace(raw)

	if line == "" {
		// Blank lines separate sections; they are never errors.
		if p.state == inSection {
			p.state = noActiveSection
			p.current = -1
		}
		return nil
	}

	bars := strings.Count(line, Separator)

	if p.state == expectHeader {
		if bars != 1 {
			return p.fail(core.ErrMalformedLine, line, bars,
				fmt.Sprintf("lesson header needs exactly 1 bar, found %d", bars))
		}
		fields := p.split(line)
		p.rec.Number = strings.ToLower(fields[0])
		p.rec.Name = fields[1]
		p.state = noActiveSection
		return nil
	}

	switch bars {
	case 1:
		if p.state == inSection {
			return p.fail(core.ErrDuplicateSectionHeader, line, bars,
				"section name declared twice in a row without an intervening note or blank line")
		}
		fields := p.split(line)
		key := core.SectionKey{Number: strings.ToLower(fields[0]), Name: fields[1]}
		if prev, seen := p.numbers[key.Number]; seen {
			return p.fail(core.ErrDuplicateSectionHeader, line, bars,
				fmt.Sprintf("section %q already declared on line %d", key.Number, prev))
		}
		p.numbers[key.Number] = p.line
		p.rec.Sections = append(p.rec.Sections, core.Section{Key: key})
		p.current = len(p.rec.Sections) - 1
		p.state = inSection
		return nil

	case 2:
		if p.state != inSection {
			return p.fail(core.ErrSectionWithoutHeader, line, bars, "")
		}
		fields := p.split(line)
		section := &p.rec.Sections[p.current]
		section.Notes = append(section.Notes, core.NoteRecord{
			Number: strings.ToLower(fields[0]),
			Left:   fields[1],
			Right:  fields[2],
		})
		return nil

	default:
		return p.fail(core.ErrMalformedLine, line, bars, fmt.Sprintf("line contains %d bar(s)", bars))
	}
}

func (p *parser) finish() (core.LessonRecord, error) {
	if p.state == expectHeader {
		return core.LessonRecord{}, &core.SyntaxError{Kind: core.ErrMissingLessonHeader, Source: p.opts.source}
	}
	return p.rec, nil
}

// split cuts a line on bars and cleans every field.
func (p *parser) split(line string) []string {
	fields := strings.Split(line, Separator)
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if p.opts.normalize {
			f = norm.NFC.String(f)
		}
		fields[i] = f
	}
	return fields
}

func (p *parser) fail(kind error, line string, bars int, detail string) error {
	return &core.SyntaxError{
		Kind:   kind,
		Source: p.opts.source,
		Line:   p.line,
		Text:   line,
		Bars:   bars,
		Detail: detail,
	}
}
