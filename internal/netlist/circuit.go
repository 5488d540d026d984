package netlist

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"netedit/internal/eng"
	"netedit/internal/fsearch"
)

// SubcktDivider separates segments of a hierarchical reference:
// "X1:R1" addresses R1 inside the subcircuit instance X1.
const SubcktDivider = ":"

// defaultEOL terminates lines the editor inserts. Lines read from a file
// keep whatever terminator they came with.
const defaultEOL = "\n"

// simulatorLibPaths are the default library roots consulted after the
// netlist's own directory. Empty unless the caller registers the install
// locations of its simulator.
var simulatorLibPaths []string

// SetSimulatorLibraryPaths replaces the default library search roots
// shared by all circuits.
func SetSimulatorLibraryPaths(paths ...string) {
	simulatorLibPaths = append([]string(nil), paths...)
}

// Line is one entry of a circuit scope: either verbatim text (with its
// original terminator) or a nested subcircuit definition.
type Line struct {
	text string
	sub  *Circuit
}

func textLine(s string) Line  { return Line{text: s} }
func subLine(c *Circuit) Line { return Line{sub: c} }

// IsSubcircuit reports whether the line holds a nested definition.
func (l Line) IsSubcircuit() bool { return l.sub != nil }

// Text returns the verbatim text of a text line.
func (l Line) Text() string { return l.text }

// Circuit is an ordered scope of netlist lines. The file-level netlist is
// the root; every .SUBCKT definition is a nested Circuit. Mutations splice
// matched spans inside stored lines; untouched lines are carried through
// byte for byte.
type Circuit struct {
	lines  []Line
	parent *Circuit

	// modified holds private copies of subcircuit definitions, one per
	// edited instance path, flushed just before this scope's terminator.
	modified map[string]*Circuit
	modOrder []string

	// readOnly marks definitions loaded from library files.
	readOnly bool

	eol string

	// Root-scope only: backing file and extra library search roots.
	filePath       string
	customLibPaths []string
}

func newCircuit(parent *Circuit) *Circuit {
	return &Circuit{
		parent:   parent,
		modified: make(map[string]*Circuit),
		eol:      defaultEOL,
	}
}

func (c *Circuit) root() *Circuit {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsReadOnly reports whether the scope came from a library file and
// refuses direct edits.
func (c *Circuit) IsReadOnly() bool { return c.readOnly }

func trimEOL(line string) string { return strings.TrimRight(line, "\r\n") }

// lineMatch is a grammar match against one stored line. Spans index into
// the stored text, so splices preserve everything outside the span.
type lineMatch struct {
	line  string
	re    *regexp.Regexp
	spans []int
}

func (m *lineMatch) span(name string) (int, int, bool) {
	i := m.re.SubexpIndex(name)
	if i < 0 || 2*i+1 >= len(m.spans) {
		return 0, 0, false
	}
	start, end := m.spans[2*i], m.spans[2*i+1]
	if start < 0 {
		return 0, 0, false
	}
	return start, end, true
}

func (m *lineMatch) has(name string) bool {
	_, _, ok := m.span(name)
	return ok
}

func (m *lineMatch) group(name string) string {
	start, end, ok := m.span(name)
	if !ok {
		return ""
	}
	return m.line[start:end]
}

// collect consumes lines from next into this scope. A .SUBCKT directive
// opens a child scope that recursively consumes until its .ENDS; a
// continuation line is merged into the previous text line; everything
// else is stored verbatim. Returns true when the scope's terminator was
// consumed, false when input ran out first.
func (c *Circuit) collect(next func() (string, bool)) (bool, error) {
	for {
		line, ok := next()
		if !ok {
			return false, nil
		}
		cmd, err := lineCommand(line)
		if err != nil {
			return false, err
		}
		switch {
		case cmd == ".SUBCKT":
			sub := newCircuit(c)
			sub.eol = c.eol
			sub.lines = append(sub.lines, textLine(line))
			finished, err := sub.collect(next)
			if err != nil {
				return false, err
			}
			if !finished {
				return false, nil
			}
			c.lines = append(c.lines, subLine(sub))
		case cmd == "+":
			if len(c.lines) == 0 {
				return false, &StructuralError{Msg: fmt.Sprintf("continuation line with nothing to continue: %q", line)}
			}
			last := &c.lines[len(c.lines)-1]
			if last.sub != nil {
				return false, &StructuralError{Msg: fmt.Sprintf("continuation line after a subcircuit definition: %q", line)}
			}
			last.text += line
		default:
			c.lines = append(c.lines, textLine(stripEscapeMarker(cmd, line)))
			if strings.HasPrefix(cmd, ".END") {
				return true, nil
			}
		}
	}
}

// stripEscapeMarker removes the optional § escape some tools place right
// after a single-character prefix.
func stripEscapeMarker(cmd, line string) string {
	if utf8.RuneCountInString(cmd) != 1 {
		return line
	}
	_, firstLen := utf8.DecodeRuneInString(line)
	if firstLen >= len(line) {
		return line
	}
	sec, secLen := utf8.DecodeRuneInString(line[firstLen:])
	if sec != '§' {
		return line
	}
	return line[:firstLen] + line[firstLen+secLen:]
}

// serialize writes the scope depth-first. Private instance copies are
// flushed immediately before the scope's terminator, so clones always
// precede their owner's closing directive.
func (c *Circuit) serialize(w io.Writer, terminatorPrefix string) error {
	for _, ln := range c.lines {
		if ln.sub != nil {
			if err := ln.sub.serialize(w, ".ENDS"); err != nil {
				return err
			}
			continue
		}
		if strings.HasPrefix(strings.ToUpper(ln.text), terminatorPrefix) {
			for _, key := range c.modOrder {
				if err := c.modified[key].serialize(w, ".ENDS"); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(w, ln.text); err != nil {
			return err
		}
	}
	return nil
}

// String renders the scope as netlist text.
func (c *Circuit) String() string {
	var sb strings.Builder
	_ = c.serialize(&sb, ".ENDS")
	return sb.String()
}

// lineStartingWith returns the index of the direct line whose first token
// equals token, case-insensitively. Nested definitions are not entered.
func (c *Circuit) lineStartingWith(token string) (int, error) {
	wanted := strings.ToUpper(token)
	for i, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		if firstToken(ln.text) == wanted {
			return i, nil
		}
	}
	return 0, &NotFoundError{Ref: token}
}

// componentLineAndMatch locates ref's line and matches it against its
// family's grammar. A known prefix with a failed match is a hard error:
// a silent partial parse would corrupt the line on write-back.
func (c *Circuit) componentLineAndMatch(ref string) (int, GrammarEntry, *lineMatch, error) {
	prefix, _ := utf8.DecodeRuneInString(ref)
	entry, ok := lookupGrammar(prefix)
	if !ok || entry.Pattern == nil {
		return 0, entry, nil, &UnknownPrefixError{Line: ref}
	}
	idx, err := c.lineStartingWith(ref)
	if err != nil {
		return 0, entry, nil, err
	}
	line := c.lines[idx].text
	spans := entry.Pattern.FindStringSubmatchIndex(trimEOL(line))
	if spans == nil {
		return 0, entry, nil, &GrammarError{Line: trimEOL(line), Pattern: entry.Pattern.String()}
	}
	return idx, entry, &lineMatch{line: line, re: entry.Pattern, spans: spans}, nil
}

// GetComponent resolves a plain or hierarchical reference to a component
// view. Hierarchical references descend through subcircuit instances,
// preferring an existing private copy for the instance path.
func (c *Circuit) GetComponent(ref string) (*Component, error) {
	if inst, rest, hier := strings.Cut(ref, SubcktDivider); hier {
		if !isSubcktInstanceRef(inst) {
			return nil, &NotFoundError{Ref: ref}
		}
		scope, ok := c.modified[inst]
		if !ok {
			var err error
			scope, err = c.GetSubcircuit(inst)
			if err != nil {
				return nil, err
			}
		}
		return scope.GetComponent(rest)
	}
	_, _, m, err := c.componentLineAndMatch(ref)
	if err != nil {
		return nil, err
	}
	return &Component{circuit: c, ref: m.group("designator")}, nil
}

func isSubcktInstanceRef(ref string) bool {
	r, _ := utf8.DecodeRuneInString(ref)
	return toUpperRune(r) == 'X'
}

// GetSubcircuit resolves a subcircuit instance reference to its
// definition scope: an existing private copy for this path, a definition
// in this tree or any ancestor, or one loaded from an included library.
func (c *Circuit) GetSubcircuit(ref string) (*Circuit, error) {
	inst, rest, hier := strings.Cut(ref, SubcktDivider)
	if sub, ok := c.modified[inst]; ok {
		if hier {
			return sub.GetSubcircuit(rest)
		}
		return sub, nil
	}
	idx, err := c.lineStartingWith(inst)
	if err != nil {
		return nil, err
	}
	line := trimEOL(c.lines[idx].text)
	xEntry := grammar['X']
	spans := xEntry.Pattern.FindStringSubmatchIndex(line)
	if spans == nil {
		return nil, &GrammarError{Line: line, Pattern: xEntry.Pattern.String()}
	}
	m := &lineMatch{line: line, re: xEntry.Pattern, spans: spans}
	typeName := m.group("value")

	sub := c.subcircuitNamed(typeName)
	if sub == nil {
		sub = c.findSubcktInIncludedLibs(typeName)
	}
	if sub == nil {
		return nil, &NotFoundError{Ref: typeName}
	}
	if hier {
		return sub.GetSubcircuit(rest)
	}
	return sub, nil
}

// SubcircuitNamed finds a definition by type name in this scope or any
// ancestor scope. The second return is false when no definition exists.
func (c *Circuit) SubcircuitNamed(name string) (*Circuit, bool) {
	sub := c.subcircuitNamed(name)
	return sub, sub != nil
}

// subcircuitNamed finds a definition by type name in this scope, then in
// the ancestor chain.
func (c *Circuit) subcircuitNamed(name string) *Circuit {
	for _, ln := range c.lines {
		if ln.sub == nil {
			continue
		}
		if subName, err := ln.sub.Name(); err == nil && strings.EqualFold(subName, name) {
			return ln.sub
		}
	}
	if c.parent != nil {
		return c.parent.subcircuitNamed(name)
	}
	return nil
}

// SubcircuitNames lists the definitions nested directly in this scope.
func (c *Circuit) SubcircuitNames() []string {
	var names []string
	for _, ln := range c.lines {
		if ln.sub == nil {
			continue
		}
		if name, err := ln.sub.Name(); err == nil {
			names = append(names, name)
		}
	}
	return names
}

// findSubcktInIncludedLibs scans this scope's .LIB/.INC directives for a
// file containing the named definition, walking up to ancestors when
// nothing local matches. Definitions found this way are read-only.
func (c *Circuit) findSubcktInIncludedLibs(name string) *Circuit {
	for _, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		m := libIncRegex.FindStringSubmatch(trimEOL(ln.text))
		if m == nil {
			continue
		}
		libPath, ok := fsearch.Find(strings.TrimSpace(m[2]), c.libContainers()...)
		if !ok {
			continue
		}
		if sub, err := loadSubcktFromLib(libPath, name); err == nil && sub != nil {
			return sub
		}
	}
	if c.parent != nil {
		return c.parent.findSubcktInIncludedLibs(name)
	}
	return nil
}

// libContainers returns the ordered library search roots: the netlist's
// own directory, the working directory, the simulator defaults, and any
// custom paths registered on the root scope.
func (c *Circuit) libContainers() []string {
	r := c.root()
	containers := make([]string, 0, 2+len(simulatorLibPaths)+len(r.customLibPaths))
	if r.filePath != "" {
		containers = append(containers, filepath.Dir(r.filePath))
	}
	containers = append(containers, ".")
	containers = append(containers, simulatorLibPaths...)
	containers = append(containers, r.customLibPaths...)
	return containers
}

// setComponentSpan replaces the value span of ref's line. Model and value
// edits meet here: for families where the model is the value token the
// span is the same, and for the rest the caller picked the right text.
func (c *Circuit) setComponentSpan(ref, newText string) error {
	if inst, rest, hier := strings.Cut(ref, SubcktDivider); hier {
		sub, err := c.materializeInstance(inst, ref)
		if err != nil {
			return err
		}
		return sub.setComponentSpan(rest, newText)
	}
	idx, entry, m, err := c.componentLineAndMatch(ref)
	if err != nil {
		return err
	}
	start, end, ok := m.span("value")
	if !ok {
		return fmt.Errorf("component family %q defines no value span", string(entry.Prefix))
	}
	c.lines[idx].text = m.line[:start] + newText + m.line[end:]
	return nil
}

// materializeInstance returns the private copy of a subcircuit instance,
// creating it on first use: the shared definition is deep-copied, renamed
// with the instance path appended, registered under the path, and the
// instance line is rewritten to call the copy. One copy per path, no
// matter how many components inside it are edited.
func (c *Circuit) materializeInstance(inst, fullRef string) (*Circuit, error) {
	if !isSubcktInstanceRef(inst) {
		return nil, &NotFoundError{Ref: fullRef}
	}
	if sub, ok := c.modified[inst]; ok {
		return sub, nil
	}
	original, err := c.GetSubcircuit(inst)
	if err != nil {
		return nil, err
	}
	name, err := original.Name()
	if err != nil {
		return nil, err
	}
	newName := name + "_" + inst
	clone := original.Clone()
	if err := clone.SetName(newName); err != nil {
		return nil, err
	}
	c.modified[inst] = clone
	c.modOrder = append(c.modOrder, inst)
	// Point the calling instance at its private copy.
	if err := c.setComponentSpan(inst, newName); err != nil {
		return nil, err
	}
	return clone, nil
}

// SetComponentValue replaces the value of a component. Components inside
// subcircuit instances are addressed hierarchically ("X1:R1"), which
// copies the shared definition for that instance before editing.
func (c *Circuit) SetComponentValue(ref, value string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	return c.setComponentSpan(ref, value)
}

// SetComponentValueEng replaces the value of a component with value
// rendered in engineering notation.
func (c *Circuit) SetComponentValueEng(ref string, value float64) error {
	return c.SetComponentValue(ref, eng.Format(value))
}

// SetComponentModel replaces the model of a component, e.g. a diode type
// or a voltage source function.
func (c *Circuit) SetComponentModel(ref, model string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	return c.setComponentSpan(ref, model)
}

// GetComponentValue returns the current value text of a component.
func (c *Circuit) GetComponentValue(ref string) (string, error) {
	comp, err := c.GetComponent(ref)
	if err != nil {
		return "", err
	}
	return comp.Value()
}

// GetComponentModel returns the current model of a component.
func (c *Circuit) GetComponentModel(ref string) (string, error) {
	comp, err := c.GetComponent(ref)
	if err != nil {
		return "", err
	}
	return comp.Model()
}

// GetComponentNodes returns the nodes a component connects to.
func (c *Circuit) GetComponentNodes(ref string) ([]string, error) {
	comp, err := c.GetComponent(ref)
	if err != nil {
		return nil, err
	}
	return comp.Nodes()
}

// GetComponentParameters returns the ordered key=value parameters of a
// component line.
func (c *Circuit) GetComponentParameters(ref string) (Params, error) {
	comp, err := c.GetComponent(ref)
	if err != nil {
		return nil, err
	}
	return comp.Params()
}

// SetComponentParameters merges updates into a component's parameter
// tail: existing keys keep their position, new keys append, nil values
// remove. Only the parameter span of the line is rewritten.
func (c *Circuit) SetComponentParameters(ref string, updates ...ParamUpdate) error {
	if c.readOnly {
		return ErrReadOnly
	}
	return c.mergeComponentParams(ref, updates)
}

func (c *Circuit) mergeComponentParams(ref string, updates []ParamUpdate) error {
	if inst, rest, hier := strings.Cut(ref, SubcktDivider); hier {
		sub, err := c.materializeInstance(inst, ref)
		if err != nil {
			return err
		}
		return sub.mergeComponentParams(rest, updates)
	}
	idx, _, m, err := c.componentLineAndMatch(ref)
	if err != nil {
		return err
	}
	var params Params
	if m.has("params") {
		params, err = parseParams(m.group("params"), m.line)
		if err != nil {
			return err
		}
	}
	for _, u := range updates {
		if u.Value == nil {
			params = deleteParam(params, u.Key)
			continue
		}
		params = upsertParam(params, u.Key, strings.TrimSpace(*u.Value))
	}
	text := formatParams(params)
	if text != "" {
		text = " " + text
	}
	if start, end, ok := m.span("params"); ok {
		c.lines[idx].text = m.line[:start] + text + m.line[end:]
		return nil
	}
	// No parameter span matched: append before the line terminator.
	body := trimEOL(m.line)
	c.lines[idx].text = body + text + m.line[len(body):]
	return nil
}

func deleteParam(params Params, key string) Params {
	out := params[:0]
	for _, kv := range params {
		if kv.Key != key {
			out = append(out, kv)
		}
	}
	return out
}

func upsertParam(params Params, key, value string) Params {
	for i, kv := range params {
		if kv.Key == key {
			params[i].Value = value
			return params
		}
	}
	return append(params, Param{Key: key, Value: value})
}

// Components returns the designators of this scope's direct components
// whose prefix appears in prefixes. The wildcard "*" matches every
// family. Nested definitions are not entered.
func (c *Circuit) Components(prefixes string) []string {
	var filter map[rune]bool
	if prefixes != "*" {
		filter = make(map[rune]bool, len(prefixes))
		for _, r := range prefixes {
			filter[toUpperRune(r)] = true
		}
	}
	var refs []string
	for _, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		fields := strings.Fields(ln.text)
		if len(fields) == 0 {
			continue
		}
		prefix, _ := utf8.DecodeRuneInString(fields[0])
		prefix = toUpperRune(prefix)
		if _, known := grammar[prefix]; !known {
			continue
		}
		if filter != nil && !filter[prefix] {
			continue
		}
		refs = append(refs, fields[0])
	}
	return refs
}

// AllNodes returns every node referenced by a grammar-recognized line in
// this scope, in first-appearance order.
func (c *Circuit) AllNodes() []string {
	var nodes []string
	seen := make(map[string]bool)
	for _, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		cmd, err := lineCommand(ln.text)
		if err != nil || utf8.RuneCountInString(cmd) != 1 {
			continue
		}
		prefix, _ := utf8.DecodeRuneInString(cmd)
		entry, ok := lookupGrammar(prefix)
		if !ok || entry.Pattern == nil {
			continue
		}
		body := trimEOL(ln.text)
		spans := entry.Pattern.FindStringSubmatchIndex(body)
		if spans == nil {
			continue
		}
		m := &lineMatch{line: body, re: entry.Pattern, spans: spans}
		for _, node := range strings.Fields(m.group("nodes")) {
			if !seen[node] {
				seen[node] = true
				nodes = append(nodes, node)
			}
		}
	}
	return nodes
}

// AddComponentLine inserts a new component line, validated against its
// family's grammar, before the trailing .backanno marker or near the end
// of the scope.
func (c *Circuit) AddComponentLine(line string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	cmd, err := lineCommand(line)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(cmd) != 1 || cmd == "+" || cmd == "*" {
		return &UnknownPrefixError{Line: line}
	}
	prefix, _ := utf8.DecodeRuneInString(cmd)
	entry, ok := lookupGrammar(prefix)
	if !ok || entry.Pattern == nil {
		return &UnknownPrefixError{Line: line}
	}
	if entry.Pattern.FindStringIndex(trimEOL(line)) == nil {
		return &GrammarError{Line: trimEOL(line), Pattern: entry.Pattern.String()}
	}
	if !strings.HasSuffix(line, "\n") {
		line += c.eol
	}
	c.insertNearEnd(textLine(line))
	return nil
}

// RemoveComponent deletes a component line from this scope.
func (c *Circuit) RemoveComponent(ref string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	idx, err := c.lineStartingWith(ref)
	if err != nil {
		return err
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return nil
}

// insertNearEnd places a line before the .backanno marker when present,
// otherwise before the last two lines of the scope (typically the
// trailing marker and the terminator).
func (c *Circuit) insertNearEnd(ln Line) {
	idx := -1
	for i, existing := range c.lines {
		if existing.sub == nil && firstToken(existing.text) == ".BACKANNO" {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = len(c.lines) - 2
		if idx < 0 {
			idx = 0
		}
	}
	c.lines = append(c.lines, Line{})
	copy(c.lines[idx+1:], c.lines[idx:])
	c.lines[idx] = ln
}

// AddInstruction adds a simulator directive to the scope. A singleton
// analysis directive replaces any existing one in place; a .PARAM line is
// rejected because parameters go through SetParameter; an identical
// existing line is left alone.
func (c *Circuit) AddInstruction(instruction string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	if !strings.HasSuffix(instruction, "\n") {
		instruction += c.eol
	}
	cmd, err := lineCommand(instruction)
	if err != nil {
		return err
	}
	if cmd == ".PARAM" {
		return ErrAmbiguousInstruction
	}
	if uniqueInstructions[cmd] {
		for i, ln := range c.lines {
			if ln.sub == nil && isUniqueInstruction(ln.text) {
				c.lines[i].text = instruction
				return nil
			}
		}
	}
	for _, ln := range c.lines {
		if ln.sub == nil && ln.text == instruction {
			return nil
		}
	}
	c.insertNearEnd(textLine(instruction))
	return nil
}

// RemoveInstruction deletes the directive line exactly matching
// instruction and reports whether one was removed.
func (c *Circuit) RemoveInstruction(instruction string) bool {
	if !strings.HasSuffix(instruction, "\n") {
		instruction += c.eol
	}
	for i, ln := range c.lines {
		if ln.sub == nil && ln.text == instruction {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			slog.Info("instruction removed", "instruction", trimEOL(instruction))
			return true
		}
	}
	slog.Debug("instruction not found", "instruction", trimEOL(instruction))
	return false
}

// RemoveInstructionsMatching deletes every direct line matching the
// pattern, anchored at the start of the line, regardless of its class.
// Returns how many lines were removed.
func (c *Circuit) RemoveInstructionsMatching(pattern string) (int, error) {
	re, err := regexp.Compile(`(?i)^(?:` + pattern + `)`)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction pattern %q: %w", pattern, err)
	}
	removed := 0
	kept := c.lines[:0]
	for _, ln := range c.lines {
		if ln.sub == nil && re.MatchString(ln.text) {
			removed++
			slog.Info("instruction removed", "instruction", trimEOL(ln.text))
			continue
		}
		kept = append(kept, ln)
	}
	c.lines = kept
	if removed == 0 {
		slog.Debug("no instruction matched pattern", "pattern", pattern)
	}
	return removed, nil
}

// paramNamed locates a name=value assignment on a .PARAM line. One
// directive line may carry several assignments.
func (c *Circuit) paramNamed(name string) (int, *lineMatch, bool) {
	wanted := strings.ToUpper(name)
	nameIdx := paramAssignRegex.SubexpIndex("name")
	for i, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		cmd, err := lineCommand(ln.text)
		if err != nil || cmd != ".PARAM" {
			continue
		}
		body := trimEOL(ln.text)
		for _, spans := range paramAssignRegex.FindAllStringSubmatchIndex(body, -1) {
			got := body[spans[2*nameIdx]:spans[2*nameIdx+1]]
			if strings.ToUpper(got) == wanted {
				return i, &lineMatch{line: ln.text, re: paramAssignRegex, spans: spans}, true
			}
		}
	}
	return 0, nil, false
}

// GetParameter returns the value text of a .PARAM assignment.
func (c *Circuit) GetParameter(name string) (string, error) {
	_, m, ok := c.paramNamed(name)
	if !ok {
		return "", &ParamNotFoundError{Name: name}
	}
	return m.group("value"), nil
}

// SetParameter updates a .PARAM assignment in place, or appends a new
// .PARAM directive near the end of the scope when the name is absent.
// Parameter names stay unique per scope.
func (c *Circuit) SetParameter(name, value string) error {
	if c.readOnly {
		return ErrReadOnly
	}
	idx, m, ok := c.paramNamed(name)
	if ok {
		start, end, _ := m.span("value")
		c.lines[idx].text = m.line[:start] + value + m.line[end:]
		return nil
	}
	insert := len(c.lines) - 2
	if insert < 0 {
		insert = 0
	}
	ln := textLine(".PARAM " + name + "=" + value + c.eol)
	c.lines = append(c.lines, Line{})
	copy(c.lines[insert+1:], c.lines[insert:])
	c.lines[insert] = ln
	return nil
}

// SetParameterEng sets a parameter to value rendered in engineering
// notation.
func (c *Circuit) SetParameterEng(name string, value float64) error {
	return c.SetParameter(name, eng.Format(value))
}

// ParameterNames returns every .PARAM name defined directly in this
// scope, upper-cased and sorted.
func (c *Circuit) ParameterNames() []string {
	nameIdx := paramAssignRegex.SubexpIndex("name")
	var names []string
	for _, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		cmd, err := lineCommand(ln.text)
		if err != nil || cmd != ".PARAM" {
			continue
		}
		body := trimEOL(ln.text)
		for _, spans := range paramAssignRegex.FindAllStringSubmatchIndex(body, -1) {
			names = append(names, strings.ToUpper(body[spans[2*nameIdx]:spans[2*nameIdx+1]]))
		}
	}
	sort.Strings(names)
	return names
}

// Name extracts the definition name from the scope's .SUBCKT clause.
func (c *Circuit) Name() (string, error) {
	if len(c.lines) == 0 {
		return "", &StructuralError{Msg: "empty subcircuit"}
	}
	for _, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		if m := subcktRegex.FindStringSubmatch(trimEOL(ln.text)); m != nil {
			return m[subcktRegex.SubexpIndex("name")], nil
		}
	}
	return "", &StructuralError{Msg: "no .SUBCKT clause in subcircuit"}
}

// SetName renames the definition, rewriting both the .SUBCKT clause and
// the .ENDS terminator. On an empty scope it synthesizes a minimal
// definition skeleton instead of failing.
func (c *Circuit) SetName(newName string) error {
	if len(c.lines) == 0 {
		c.lines = append(c.lines,
			textLine("* netedit created this sub-circuit"+c.eol),
			textLine(".SUBCKT "+newName+c.eol),
			textLine(".ENDS "+newName+c.eol),
		)
		return nil
	}
	nameIdx := subcktRegex.SubexpIndex("name")
	start := -1
	for i, ln := range c.lines {
		if ln.sub != nil {
			continue
		}
		body := trimEOL(ln.text)
		spans := subcktRegex.FindStringSubmatchIndex(body)
		if spans == nil {
			continue
		}
		c.lines[i].text = ln.text[:spans[2*nameIdx]] + newName + ln.text[spans[2*nameIdx+1]:]
		start = i
		break
	}
	if start < 0 {
		return &StructuralError{Msg: "no .SUBCKT clause in subcircuit"}
	}
	for i := start; i < len(c.lines); i++ {
		if c.lines[i].sub != nil {
			continue
		}
		if cmd, err := lineCommand(c.lines[i].text); err == nil && cmd == ".ENDS" {
			c.lines[i].text = ".ENDS " + newName + c.eol
			return nil
		}
	}
	return &StructuralError{Msg: "no .ENDS terminator in subcircuit"}
}

// Clone returns an editable deep copy of the scope, bracketed by marker
// comments. Edits to the copy never touch the original.
func (c *Circuit) Clone() *Circuit {
	clone := c.deepCopy(c.parent)
	clone.parent = c
	clone.lines = append([]Line{textLine("***** netedit manipulated this sub-circuit ****" + c.eol)}, clone.lines...)
	clone.lines = append(clone.lines, textLine("***** ENDS netedit ****"+c.eol))
	return clone
}

// deepCopy copies the line tree recursively. The copy is editable even
// when the source was a read-only library definition: the point of a copy
// is to be edited.
func (c *Circuit) deepCopy(parent *Circuit) *Circuit {
	cp := newCircuit(parent)
	cp.eol = c.eol
	cp.lines = make([]Line, 0, len(c.lines))
	for _, ln := range c.lines {
		if ln.sub != nil {
			cp.lines = append(cp.lines, subLine(ln.sub.deepCopy(cp)))
			continue
		}
		cp.lines = append(cp.lines, ln)
	}
	return cp
}
