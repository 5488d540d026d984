package netlist

import (
	"fmt"
	"strings"
)

// Param is one key=value token from a component line. Order matters:
// SPICE tools echo parameters back in the order written.
type Param struct {
	Key   string
	Value string
}

// Params is the ordered parameter list of a component line.
type Params []Param

// Get returns the value for key, exact match.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// ParamUpdate is one entry of a parameter merge. A nil Value removes the
// key; otherwise the key is updated in place or appended.
type ParamUpdate struct {
	Key   string
	Value *string
}

// SetParam builds an insert-or-overwrite update.
func SetParam(key, value string) ParamUpdate {
	return ParamUpdate{Key: key, Value: &value}
}

// DeleteParam builds a removal update.
func DeleteParam(key string) ParamUpdate {
	return ParamUpdate{Key: key}
}

// Component is a transient view over one component line. It holds only
// the owning scope and the designator: every accessor re-locates and
// re-parses the line, because edits elsewhere in the scope can shift
// indexes and rewrite text between calls.
type Component struct {
	circuit *Circuit
	ref     string
}

// Reference returns the component designator, e.g. "R1".
func (c *Component) Reference() string { return c.ref }

// Nodes returns the circuit nodes the component connects to, in line order.
func (c *Component) Nodes() ([]string, error) {
	_, _, m, err := c.circuit.componentLineAndMatch(c.ref)
	if err != nil {
		return nil, err
	}
	return strings.Fields(m.group("nodes")), nil
}

// Value returns the value span of the line: a number, a source function,
// a {formula}, or for model-aliased families the model name.
func (c *Component) Value() (string, error) {
	_, entry, m, err := c.circuit.componentLineAndMatch(c.ref)
	if err != nil {
		return "", err
	}
	if !m.has("value") {
		return "", fmt.Errorf("component family %q defines no value span", string(entry.Prefix))
	}
	return m.group("value"), nil
}

// Model returns the model name. Families with a dedicated model token
// (capacitors, resistors) read it from that span; families where the
// model occupies the value span (diodes, transistors) read the value.
func (c *Component) Model() (string, error) {
	_, entry, m, err := c.circuit.componentLineAndMatch(c.ref)
	if err != nil {
		return "", err
	}
	if m.has("model") {
		return strings.TrimSpace(m.group("model")), nil
	}
	if entry.ModelIsValue && m.has("value") {
		return m.group("value"), nil
	}
	return "", fmt.Errorf("component family %q defines no model span", string(entry.Prefix))
}

// Params parses the key=value tail of the line into an ordered list.
func (c *Component) Params() (Params, error) {
	_, _, m, err := c.circuit.componentLineAndMatch(c.ref)
	if err != nil {
		return nil, err
	}
	if !m.has("params") {
		return nil, nil
	}
	return parseParams(m.group("params"), m.line)
}

// SetValue replaces the value span with the given text.
func (c *Component) SetValue(value string) error {
	return c.circuit.SetComponentValue(c.ref, value)
}

// SetValueEng replaces the value span with value rendered in
// engineering notation.
func (c *Component) SetValueEng(value float64) error {
	return c.circuit.SetComponentValueEng(c.ref, value)
}

// SetModel replaces the model span with the given name.
func (c *Component) SetModel(model string) error {
	return c.circuit.SetComponentModel(c.ref, model)
}

// SetParams merges updates into the parameter tail.
func (c *Component) SetParams(updates ...ParamUpdate) error {
	return c.circuit.SetComponentParameters(c.ref, updates...)
}

// parseParams splits a parameter span into ordered key=value pairs.
func parseParams(span string, line string) (Params, error) {
	var out Params
	for _, tok := range strings.Fields(span) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			return nil, &MalformedParamError{Token: tok, Line: line}
		}
		out = append(out, Param{Key: key, Value: value})
	}
	return out, nil
}

// formatParams renders pairs back into the whitespace-separated form.
func formatParams(params Params) string {
	parts := make([]string, len(params))
	for i, kv := range params {
		parts[i] = kv.Key + "=" + kv.Value
	}
	return strings.Join(parts, " ")
}
