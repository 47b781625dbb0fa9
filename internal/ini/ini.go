// Package ini reads block-structured game data files:
//
//	; comment
//	Locomotor BasicHumanLocomotor
//	  Surfaces = GROUND RUBBLE
//	  Speed    = 20
//	End
//
// Each block is handed to the parser registered for its keyword, which binds
// the body lines onto a struct through a FieldTable.
package ini

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/udisondev/rtsloco/internal/constants"
)

var (
	// ErrUnknownBlock is returned for a block keyword nobody registered.
	ErrUnknownBlock = errors.New("unknown block keyword")
	// ErrUnknownField is returned for a body key missing from the field table.
	ErrUnknownField = errors.New("unknown field")
	// ErrBadValue is returned when a value cannot be converted.
	ErrBadValue = errors.New("bad value")
	// ErrUnexpectedEOF is returned for a block without End.
	ErrUnexpectedEOF = errors.New("unexpected end of file")
	// ErrNoToken is returned when a header token is missing.
	ErrNoToken = errors.New("missing token")
)

// LoadType selects how definitions that already exist are treated.
type LoadType int32

const (
	// LoadOverwrite re-applies fields onto the existing definition.
	LoadOverwrite LoadType = iota
	// LoadCreateOverrides layers a copy on top of the existing definition.
	LoadCreateOverrides
	// LoadMultifile is LoadOverwrite across several files.
	LoadMultifile
)

// String returns human-readable load type name
func (l LoadType) String() string {
	switch l {
	case LoadOverwrite:
		return "OVERWRITE"
	case LoadCreateOverrides:
		return "CREATE_OVERRIDES"
	case LoadMultifile:
		return "MULTIFILE"
	default:
		return "UNKNOWN"
	}
}

// Line is one "Key = values..." body line.
type Line struct {
	Key    string
	Values []string
	Num    int
}

// Block is one keyword-delimited definition.
type Block struct {
	Keyword   string
	File      string
	Num       int // header line number
	LoadType  LoadType
	// FrameRate scales per-second fields; zero means the default logic rate.
	FrameRate int
	Lines     []Line

	header []string
	cursor int
}

// NextToken returns the next header token after the keyword (usually the name).
func (b *Block) NextToken() (string, error) {
	if b.cursor >= len(b.header) {
		return "", fmt.Errorf("%s:%d %s: %w", b.File, b.Num, b.Keyword, ErrNoToken)
	}
	tok := b.header[b.cursor]
	b.cursor++
	return tok, nil
}

// wrapErr annotates err with the file position of a body line.
func (b *Block) wrapErr(line int, key string, err error) error {
	return fmt.Errorf("%s:%d %s: %w", b.File, line, key, err)
}

// BlockParser consumes one block.
type BlockParser func(b *Block) error

// Loader dispatches blocks to parsers by keyword.
type Loader struct {
	parsers   map[string]BlockParser
	frameRate int
}

// NewLoader creates a loader with no registered keywords.
func NewLoader() *Loader {
	return &Loader{
		parsers:   make(map[string]BlockParser, 8),
		frameRate: constants.LogicFramesPerSecond,
	}
}

// SetFrameRate sets the logic frame rate per-second fields are converted at.
// Non-positive values restore the default.
func (l *Loader) SetFrameRate(fps int) {
	if fps <= 0 {
		fps = constants.LogicFramesPerSecond
	}
	l.frameRate = fps
}

// FrameRate returns the logic frame rate blocks are loaded at.
func (l *Loader) FrameRate() int { return l.frameRate }

// Register binds a block keyword to its parser.
func (l *Loader) Register(keyword string, parse BlockParser) {
	l.parsers[keyword] = parse
}

// LoadFile reads and dispatches every block in path.
func (l *Loader) LoadFile(path string, loadType LoadType) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening data file %s: %w", path, err)
	}
	defer f.Close()

	n, err := l.Load(f, path, loadType)
	if err != nil {
		return err
	}
	slog.Info("data file loaded", "file", path, "blocks", n, "load_type", loadType)
	return nil
}

// Load reads every block from r and dispatches it. Returns the number of blocks.
func (l *Loader) Load(r io.Reader, name string, loadType LoadType) (int, error) {
	blocks, err := Parse(r, name)
	if err != nil {
		return 0, err
	}
	for _, b := range blocks {
		parse, ok := l.parsers[b.Keyword]
		if !ok {
			return 0, fmt.Errorf("%s:%d %q: %w", b.File, b.Num, b.Keyword, ErrUnknownBlock)
		}
		b.LoadType = loadType
		b.FrameRate = l.frameRate
		if err := parse(b); err != nil {
			return 0, fmt.Errorf("parsing %s block at %s:%d: %w", b.Keyword, b.File, b.Num, err)
		}
	}
	return len(blocks), nil
}

// Parse splits r into blocks without interpreting field values.
func Parse(r io.Reader, name string) ([]*Block, error) {
	sc := bufio.NewScanner(r)
	var (
		blocks []*Block
		cur    *Block
		num    int
	)

	for sc.Scan() {
		num++
		tokens := tokenize(sc.Text())
		if len(tokens) == 0 {
			continue
		}

		if cur == nil {
			cur = &Block{Keyword: tokens[0], File: name, Num: num, header: tokens[1:]}
			continue
		}

		if strings.EqualFold(tokens[0], "End") && len(tokens) == 1 {
			blocks = append(blocks, cur)
			cur = nil
			continue
		}

		line := Line{Key: tokens[0], Num: num}
		values := tokens[1:]
		if len(values) > 0 && values[0] == "=" {
			values = values[1:]
		}
		line.Values = values
		cur.Lines = append(cur.Lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if cur != nil {
		return nil, fmt.Errorf("%s:%d %s block: %w", name, cur.Num, cur.Keyword, ErrUnexpectedEOF)
	}
	return blocks, nil
}

// tokenize strips comments and splits on whitespace, keeping "=" as its own token.
func tokenize(s string) []string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "=", " = ")
	return strings.Fields(s)
}
