package netlist

import "regexp"

// Building blocks shared by the component patterns.
const (
	// floatRgx matches a plain or exponent-notation number.
	floatRgx = `[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?`

	// paramsRgx matches the trailing run of key=value tokens. The value
	// side admits expression characters because parameter values are
	// captured verbatim, never evaluated.
	paramsRgx = `(?P<params>(\s+\w+\s*(=\s*[\w\{\}\(\)\-\+\*\/%\.]+)?)*)?`
)

// valueRgx matches either a brace-delimited formula, captured whole and
// uncomputed, or a number shaped like the given pattern.
func valueRgx(number string) string {
	return `(?P<value>\{.*\}|` + number + `)`
}

// GrammarEntry describes the line shape of one component family.
type GrammarEntry struct {
	Prefix rune
	// Pattern is the compiled line pattern with designator, nodes,
	// value and optionally model and params groups. Nil for families
	// that the classifier recognizes but the editor cannot rewrite.
	Pattern *regexp.Regexp
	// ModelIsValue marks families whose value span holds a model name
	// rather than a numeric value: the same span serves both reads.
	ModelIsValue bool
}

func entry(prefix rune, pattern string) GrammarEntry {
	return GrammarEntry{Prefix: prefix, Pattern: regexp.MustCompile(`(?i)` + pattern)}
}

func modelEntry(prefix rune, pattern string) GrammarEntry {
	e := entry(prefix, pattern)
	e.ModelIsValue = true
	return e
}

// grammar maps a designator prefix to its line pattern. One row per
// family; dialects that add component shapes add rows, not code. The
// optional § after the prefix letter is an escape marker some tools
// emit; the collector strips it but the patterns tolerate it anyway.
var grammar = map[rune]GrammarEntry{
	// Special functions. Recognized so netlists carry them, but their
	// parameter syntax is free-form and not editable through a view.
	'A': {Prefix: 'A'},
	// Behavioral source.
	'B': entry('B', `^(?P<designator>B§?[VI]?\w+)(?P<nodes>(\s+\S+){2})\s+(?P<value>.*)$`),
	// Capacitor. The optional model token sits between nodes and value.
	'C': entry('C', `^(?P<designator>C§?\w+)(?P<nodes>(\s+\S+){2})(?P<model>\s+\w+)?\s+`+
		valueRgx(floatRgx+`[muµnpfgt]?F?`)+paramsRgx+`.*?$`),
	// Diode. The value span is the model name.
	'D': modelEntry('D', `^(?P<designator>D§?\w+)(?P<nodes>(\s+\S+){2})\s+(?P<value>\w+)`+paramsRgx+`.*?$`),
	// Voltage dependent voltage source; only the gain expression is editable.
	'E': entry('E', `^(?P<designator>E§?\w+)(?P<nodes>(\s+\S+){2,4})\s+(?P<value>.*)$`),
	// Current dependent current source.
	'F': entry('F', `^(?P<designator>F§?\w+)(?P<nodes>(\s+\S+){2})\s+(?P<value>.*)$`),
	// Voltage dependent current source.
	'G': entry('G', `^(?P<designator>G§?\w+)(?P<nodes>(\s+\S+){2,4})\s+(?P<value>.*)$`),
	// Current dependent voltage source.
	'H': entry('H', `^(?P<designator>H§?\w+)(?P<nodes>(\s+\S+){2})\s+(?P<value>.*)$`),
	// Independent current source.
	'I': entry('I', `^(?P<designator>I§?\w+)(?P<nodes>(\s+\S+){2})\s+(?P<value>.*?)`+
		`(?P<params>(\s+\w+\s*=\s*[\w\{\}\(\)\-\+\*\/%\.]+)*)$`),
	// JFET.
	'J': modelEntry('J', `^(?P<designator>J§?\w+)(?P<nodes>(\s+\S+){3})\s+(?P<value>\w+)`+paramsRgx+`.*?$`),
	// Mutual inductance.
	'K': entry('K', `^(?P<designator>K§?\w+)(?P<nodes>(\s+\S+){2,4})\s+`+
		`(?P<value>[\+\-]?[0-9\.E+-]+[kmuµnpgt]?).*$`),
	// Inductor.
	'L': entry('L', `^(?P<designator>L§?\w+)(?P<nodes>(\s+\S+){2})\s+`+
		`(?P<value>\{.*\}|([0-9\.E+-]+(Meg|[kmuµnpgt])?H?)).*$`),
	// MOSFET.
	'M': modelEntry('M', `^(?P<designator>M§?\w+)(?P<nodes>(\s+\S+){3,4})\s+(?P<value>\w+)`+paramsRgx+`.*?$`),
	// Lossy transmission line.
	'O': modelEntry('O', `^(?P<designator>O§?\w+)(?P<nodes>(\s+\S+){4})\s+(?P<value>\w+)`+paramsRgx+`.*?$`),
	// Bipolar transistor.
	'Q': modelEntry('Q', `^(?P<designator>Q§?\w+)(?P<nodes>(\s+\S+){3,4})\s+(?P<value>\w+)`+paramsRgx+`.*?$`),
	// Resistor. Accepts an optional model token and an optional R= marker.
	'R': entry('R', `^(?P<designator>R§?\w+)(?P<nodes>(\s+\S+){2})(?P<model>\s+\w+)?\s+(R=)?`+
		valueRgx(floatRgx+`(Meg|[kRmuµnpfgt])?\d*`)+paramsRgx+`.*?$`),
	// Voltage controlled switch.
	'S': entry('S', `^(?P<designator>S§?\w+)(?P<nodes>(\s+\S+){4})\s+(?P<value>.*)$`),
	// Lossless transmission line.
	'T': entry('T', `^(?P<designator>T§?\w+)(?P<nodes>(\s+\S+){4})\s+(?P<value>.*)$`),
	// Uniform RC line.
	'U': entry('U', `^(?P<designator>U§?\w+)(?P<nodes>(\s+\S+){3})\s+(?P<value>.*)$`),
	// Independent voltage source. The value soaks up source functions
	// such as PWL(...) or SINE(...); key=value tokens stay in params.
	'V': entry('V', `^(?P<designator>V§?\w+)(?P<nodes>(\s+\S+){2})\s+(?P<value>.*?)`+
		`(?P<params>(\s+\w+\s*=\s*[\w\{\}\(\)\-\+\*\/%\.]+)*)$`),
	// Current controlled switch.
	'W': entry('W', `^(?P<designator>W§?\w+)(?P<nodes>(\s+\S+){2})\s+(?P<value>.*)$`),
	// Subcircuit call: any node count, the value is the definition name,
	// the last bare token before any key=value parameters.
	'X': entry('X', `^(?P<designator>X§?\w+)(?P<nodes>(\s+\S+){1,99})\s+(?P<value>[\w\.]+)`+
		`(\s+params:)?`+paramsRgx+`\\?$`),
	// MESFET / IGBT.
	'Z': modelEntry('Z', `^(?P<designator>Z§?\w+)(?P<nodes>(\s+\S+){3})\s+(?P<value>\w+).*$`),
	// Frequency response analysis wiggler.
	'@': entry('@', `^(?P<designator>@§?\d+)(?P<nodes>(\s+\S+){2})\s?(?P<params>(.*)*)$`),
	// QSPICE extended components, fixed wide arities.
	'Ã': entry('Ã', `^(?P<designator>Ã\w+)(?P<nodes>(\s+\S+){16})\s+(?P<value>.*)`+paramsRgx+`.*?$`),
	'¥': entry('¥', `^(?P<designator>¥\w+)(?P<nodes>(\s+\S+){16})\s+(?P<value>.*)`+paramsRgx+`.*?$`),
	'€': entry('€', `^(?P<designator>€\w+)(?P<nodes>(\s+\S+){32})\s+(?P<value>.*)`+paramsRgx+`.*?$`),
	'£': entry('£', `^(?P<designator>£\w+)(?P<nodes>(\s+\S+){64})\s+(?P<value>.*)`+paramsRgx+`.*?$`),
	'Ø': entry('Ø', `^(?P<designator>Ø\w+)(?P<nodes>(\s+\S+){1,99})\s+(?P<value>.*)`+paramsRgx+`.*?$`),
	// Vendor proprietary wide components.
	'×': entry('×', `^(?P<designator>×\w+)(?P<nodes>(\s+\S+){4,16})\s+(?P<value>.*)(?P<params>(\w+\s+){1,8})\s*\\?$`),
	'Ö': entry('Ö', `^(?P<designator>Ö\w+)(?P<nodes>(\s+\S+){5})\s+(?P<params>.*)\s*\\?$`),
}

// Patterns for directive lines.
var (
	subcktRegex      = regexp.MustCompile(`(?i)^\.SUBCKT\s+(?P<name>[\w\.]+)`)
	libIncRegex      = regexp.MustCompile(`(?i)^\.(LIB|INC)\s+(.*)$`)
	paramAssignRegex = regexp.MustCompile(`(?i)(?P<name>\w+)\s*[= ]\s*(?P<value>\{[^}]*\}|[\d\.\+\-Ee]+[a-zA-Z%]*)`)
)

// lookupGrammar returns the entry for a designator prefix. The second
// return is false for characters that start no known component family.
func lookupGrammar(prefix rune) (GrammarEntry, bool) {
	e, ok := grammar[toUpperRune(prefix)]
	return e, ok
}

// knownPrefixes lists the designator characters, for error messages.
func knownPrefixes() []rune {
	ordered := []rune("ABCDEFGHIJKLMOQRSTUVWXZ@Ã¥€£Ø×Ö")
	out := make([]rune, 0, len(grammar))
	for _, r := range ordered {
		if _, ok := grammar[r]; ok {
			out = append(out, r)
		}
	}
	return out
}
