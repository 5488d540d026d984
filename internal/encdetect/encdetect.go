// Package encdetect resolves the text encoding of a netlist file by trial
// decoding. SPICE tools write netlists in whatever the host locale was:
// LTspice on Windows likes UTF-16 LE, older tools emit Windows-1252, and
// everything modern is UTF-8. There is no in-band declaration, so the
// probe decodes the whole file with each candidate in turn and accepts the
// first one that decodes cleanly and shows an expected pattern at the
// start of a line.
package encdetect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding pairs a stable name with the x/text codec implementing it.
type Encoding struct {
	name  string
	codec encoding.Encoding
}

// Name returns the canonical name of the encoding, e.g. "utf-8".
func (e Encoding) Name() string { return e.name }

// NewReader wraps r so that reads yield UTF-8.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, e.codec.NewDecoder())
}

// NewWriter wraps w so that UTF-8 writes are re-encoded on the way out.
// The caller must Close the writer to flush the transformer.
func (e Encoding) NewWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, e.codec.NewEncoder())
}

// Candidate encodings in probe order. UTF-8 goes first so that plain
// ASCII files resolve to it; the BOM-aware UTF-16 variant outranks the
// BOM-less one for the same reason.
var candidates = []Encoding{
	{"utf-8", unicode.UTF8},
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)},
	{"windows-1252", charmap.Windows1252},
	{"utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{"cp1250", charmap.Windows1250},
	{"shift-jis", japanese.ShiftJIS},
}

// DetectError reports that no candidate encoding fit the file.
type DetectError struct {
	Path    string
	Pattern string
}

func (e *DetectError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("encoding detection failed: pattern %q not found in %s under any known encoding", e.Pattern, e.Path)
	}
	return fmt.Sprintf("encoding detection failed: unable to decode %s with any known encoding", e.Path)
}

// Lookup resolves an explicitly requested encoding by name.
func Lookup(name string) (Encoding, error) {
	wanted := strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	for _, c := range candidates {
		if c.name == wanted {
			return c, nil
		}
	}
	return Encoding{}, fmt.Errorf("unsupported encoding %q", name)
}

// Detect probes path and returns the first candidate encoding under which
// the file both decodes without substitution and, when expectedPattern is
// non-empty, contains a line matching it. With an empty pattern the first
// clean decode wins, with a guard against mistaking UTF-16 for UTF-8.
func Detect(path string, expectedPattern string) (Encoding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Encoding{}, err
	}
	var expected *regexp.Regexp
	if expectedPattern != "" {
		expected, err = regexp.Compile("(?mi)" + expectedPattern)
		if err != nil {
			return Encoding{}, fmt.Errorf("invalid expected pattern %q: %w", expectedPattern, err)
		}
	}
	for _, cand := range candidates {
		text, ok := tryDecode(raw, cand)
		if !ok || len(text) == 0 {
			continue
		}
		if expected != nil && !expected.MatchString(text) {
			continue
		}
		// A UTF-16 file of ASCII text "decodes" as UTF-8 with a NUL
		// in every second byte.
		if cand.name == "utf-8" && len(text) > 1 && text[1] == 0 {
			continue
		}
		return cand, nil
	}
	return Encoding{}, &DetectError{Path: path, Pattern: expectedPattern}
}

// tryDecode decodes raw with cand and reports whether the result is a
// faithful decode. x/text decoders substitute U+FFFD instead of failing,
// so any replacement rune in the output disqualifies the candidate.
func tryDecode(raw []byte, cand Encoding) (string, bool) {
	decoded, _, err := transform.Bytes(cand.codec.NewDecoder(), raw)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(decoded, '�') {
		return "", false
	}
	return string(decoded), true
}
