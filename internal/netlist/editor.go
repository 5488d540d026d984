package netlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"netedit/internal/encdetect"
)

// commentPattern is what the encoding probe expects to find near the top
// of any real netlist.
const commentPattern = `^\*`

// Editor owns a netlist file: it parses the file into a Circuit tree,
// exposes the Circuit's editing surface, and writes the tree back out in
// the file's own encoding.
type Editor struct {
	*Circuit
	enc encdetect.Encoding
}

type editorOptions struct {
	encoding    string
	createBlank bool
	libPaths    []string
	eol         string
}

// Option configures New.
type Option func(*editorOptions)

// WithEncoding forces a file encoding instead of autodetecting it.
func WithEncoding(name string) Option {
	return func(o *editorOptions) { o.encoding = name }
}

// WithCreateBlank makes New synthesize a minimal netlist when the file
// does not exist, instead of failing.
func WithCreateBlank() Option {
	return func(o *editorOptions) { o.createBlank = true }
}

// WithLibraryPaths registers extra directories searched for .LIB/.INC
// targets, after the netlist's own directory and the simulator defaults.
func WithLibraryPaths(paths ...string) Option {
	return func(o *editorOptions) { o.libPaths = append(o.libPaths, paths...) }
}

// WithLineTerminator sets the terminator used for inserted lines. Lines
// read from the file always keep their original terminators.
func WithLineTerminator(eol string) Option {
	return func(o *editorOptions) { o.eol = eol }
}

// New opens and parses a netlist file.
func New(path string, opts ...Option) (*Editor, error) {
	var o editorOptions
	for _, opt := range opts {
		opt(&o)
	}
	ed := &Editor{Circuit: newCircuit(nil)}
	ed.filePath = path
	ed.customLibPaths = append(ed.customLibPaths, o.libPaths...)
	if o.eol != "" {
		ed.eol = o.eol
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || !o.createBlank {
			return nil, fmt.Errorf("open netlist %s: %w", path, err)
		}
		enc, err := encdetect.Lookup("utf-8")
		if err != nil {
			return nil, err
		}
		ed.enc = enc
		ed.createBlank()
		return ed, nil
	}

	if o.encoding != "" {
		enc, err := encdetect.Lookup(o.encoding)
		if err != nil {
			return nil, err
		}
		ed.enc = enc
	} else {
		enc, err := encdetect.Detect(path, commentPattern)
		if err != nil {
			return nil, err
		}
		ed.enc = enc
	}
	if err := ed.Reset(); err != nil {
		return nil, err
	}
	return ed, nil
}

// Encoding returns the name of the encoding used to read and write the
// backing file.
func (e *Editor) Encoding() string { return e.enc.Name() }

func (e *Editor) createBlank() {
	e.lines = []Line{
		textLine("* netlist created by netedit" + e.eol),
		textLine(".end" + e.eol),
	}
}

// Reset discards every edit and re-reads the backing file. A file
// created blank is reset to the blank skeleton.
func (e *Editor) Reset() error {
	f, err := os.Open(e.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			e.discardState()
			e.createBlank()
			return nil
		}
		return fmt.Errorf("open netlist %s: %w", e.filePath, err)
	}
	defer f.Close()

	e.discardState()
	next := lineReader(e.enc.NewReader(f))
	finished, err := e.collect(next)
	if err != nil {
		return fmt.Errorf("parse netlist %s: %w", e.filePath, err)
	}
	if !finished {
		return fmt.Errorf("parse netlist %s: %w", e.filePath,
			&StructuralError{Msg: "missing .END or .ENDS terminator"})
	}
	return nil
}

func (e *Editor) discardState() {
	e.lines = nil
	e.modified = make(map[string]*Circuit)
	e.modOrder = nil
}

// Save writes the current tree back to the file it was read from.
func (e *Editor) Save() error { return e.SaveAs(e.filePath) }

// SaveAs writes the current tree to path in the source file's encoding.
// Unedited lines round-trip byte for byte; private subcircuit copies are
// flushed just before the .END terminator.
func (e *Editor) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write netlist %s: %w", path, err)
	}
	w := e.enc.NewWriter(f)
	if err := e.serialize(w, ".END"); err != nil {
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("write netlist %s: %w", path, err)
	}
	return f.Close()
}

// String renders the whole netlist as text.
func (e *Editor) String() string {
	var sb strings.Builder
	_ = e.serialize(&sb, ".END")
	return sb.String()
}

// lineReader yields lines from r one at a time, keeping each line's
// terminator so the text round-trips unchanged.
func lineReader(r io.Reader) func() (string, bool) {
	br := bufio.NewReader(r)
	done := false
	return func() (string, bool) {
		if done {
			return "", false
		}
		line, err := br.ReadString('\n')
		if err != nil {
			done = true
			if line == "" {
				return "", false
			}
		}
		return line, true
	}
}

// loadSubcktFromLib scans a library file for the named .SUBCKT definition
// and parses just that definition. Definitions loaded this way are marked
// read-only; editing one first requires a per-instance copy.
func loadSubcktFromLib(path, name string) (*Circuit, error) {
	enc, err := encdetect.Detect(path, "")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	defer f.Close()

	headerRe, err := regexp.Compile(`(?i)^\.SUBCKT\s+` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return nil, err
	}
	next := lineReader(enc.NewReader(f))
	for {
		line, ok := next()
		if !ok {
			return nil, nil
		}
		if !headerRe.MatchString(line) {
			continue
		}
		sub := newCircuit(nil)
		sub.lines = append(sub.lines, textLine(line))
		finished, err := sub.collect(next)
		if err != nil {
			return nil, fmt.Errorf("parse library %s: %w", path, err)
		}
		if !finished {
			return nil, fmt.Errorf("parse library %s: %w", path,
				&StructuralError{Msg: "missing .ENDS terminator for " + name})
		}
		sub.readOnly = true
		return sub, nil
	}
}
