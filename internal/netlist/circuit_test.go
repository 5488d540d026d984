package netlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNetlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circuit.net")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openNetlist(t *testing.T, content string) *Editor {
	t.Helper()
	ed, err := New(writeNetlist(t, content))
	require.NoError(t, err)
	return ed
}

func TestSetComponentValueIdempotent(t *testing.T) {
	ed := openNetlist(t, "* rc\nR1 in out 1k\n.end\n")

	require.NoError(t, ed.SetComponentValue("R1", "4.7k"))
	want := "* rc\nR1 in out 4.7k\n.end\n"
	assert.Equal(t, want, ed.String())

	// Same value again must not change a byte.
	require.NoError(t, ed.SetComponentValue("R1", "4.7k"))
	assert.Equal(t, want, ed.String())
}

func TestSetComponentValueEng(t *testing.T) {
	ed := openNetlist(t, "* rc\nR1 in out 10\nC1 out 0 1u\n.end\n")

	require.NoError(t, ed.SetComponentValueEng("R1", 4700))
	require.NoError(t, ed.SetComponentValueEng("C1", 22e-9))

	v, err := ed.GetComponentValue("R1")
	require.NoError(t, err)
	assert.Equal(t, "4.7k", v)
	v, err = ed.GetComponentValue("C1")
	require.NoError(t, err)
	assert.Equal(t, "22n", v)
}

func TestComponentAccessors(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* accessors",
		"V1 in 0 SINE(0 1 1k) Rser=3",
		"R2 in out RMOD 2k",
		"D1 out 0 1N4148",
		"M1 d g s b NMOS W=1u L=0.5u",
		".end",
	}, "\n")+"\n")

	nodes, err := ed.GetComponentNodes("M1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "g", "s", "b"}, nodes)

	v, err := ed.GetComponentValue("V1")
	require.NoError(t, err)
	assert.Equal(t, "SINE(0 1 1k)", v)

	model, err := ed.GetComponentModel("R2")
	require.NoError(t, err)
	assert.Equal(t, "RMOD", model)

	// Families without a model token alias the value span.
	model, err = ed.GetComponentModel("D1")
	require.NoError(t, err)
	assert.Equal(t, "1N4148", model)

	params, err := ed.GetComponentParameters("M1")
	require.NoError(t, err)
	assert.Equal(t, Params{{Key: "W", Value: "1u"}, {Key: "L", Value: "0.5u"}}, params)
}

func TestSetComponentModel(t *testing.T) {
	ed := openNetlist(t, "* d\nD1 a k 1N4148\n.end\n")

	require.NoError(t, ed.SetComponentModel("D1", "BAT54"))
	assert.Contains(t, ed.String(), "D1 a k BAT54\n")
}

func TestSetComponentParameters(t *testing.T) {
	ed := openNetlist(t, "* mos\nM1 d g s b NMOS W=1u L=0.5u\n.end\n")

	require.NoError(t, ed.SetComponentParameters("M1",
		SetParam("W", "2u"),
		DeleteParam("L"),
		SetParam("AD", "1p"),
	))
	assert.Contains(t, ed.String(), "M1 d g s b NMOS W=2u AD=1p\n")

	// A line without a parameter tail grows one.
	ed = openNetlist(t, "* d\nD1 a k 1N4148\n.end\n")
	require.NoError(t, ed.SetComponentParameters("D1", SetParam("temp", "45")))
	assert.Contains(t, ed.String(), "D1 a k 1N4148 temp=45\n")
}

func TestDeletingAllParametersLeavesNoTrailingBlank(t *testing.T) {
	ed := openNetlist(t, "* mos\nM1 d g s b NMOS W=1u L=0.5u\n.end\n")

	require.NoError(t, ed.SetComponentParameters("M1",
		DeleteParam("W"),
		DeleteParam("L"),
	))
	assert.Contains(t, ed.String(), "M1 d g s b NMOS\n")
}

func TestComponentNotFound(t *testing.T) {
	ed := openNetlist(t, "* rc\nR1 in out 1k\n.end\n")

	_, err := ed.GetComponentValue("R99")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "R99", nf.Ref)
}

func TestGrammarMismatchIsAnError(t *testing.T) {
	// One node missing: the line parses as unknown shape, and a partial
	// rewrite would corrupt it, so every access fails loudly.
	ed := openNetlist(t, "* bad\nR1 in 1k\n.end\n")

	_, err := ed.GetComponentValue("R1")
	var ge *GrammarError
	require.ErrorAs(t, err, &ge)

	err = ed.SetComponentValue("R1", "2k")
	require.ErrorAs(t, err, &ge)
	assert.Contains(t, ed.String(), "R1 in 1k\n")
}

func TestComponentsListing(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* mixed",
		"V1 in 0 5",
		"R1 in mid 1k",
		"r2 mid out 2k",
		"C1 out 0 10n",
		".model RMOD res",
		".end",
	}, "\n")+"\n")

	assert.Equal(t, []string{"V1", "R1", "r2", "C1"}, ed.Components("*"))
	assert.Equal(t, []string{"R1", "r2", "C1"}, ed.Components("RC"))
	assert.Equal(t, []string{"V1"}, ed.Components("v"))
}

func TestAllNodes(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* nodes",
		"V1 in 0 5",
		"R1 in out 1k",
		"C1 out 0 10n",
		".end",
	}, "\n")+"\n")

	assert.Equal(t, []string{"in", "0", "out"}, ed.AllNodes())
}

func TestAddAndRemoveComponent(t *testing.T) {
	ed := openNetlist(t, "* rc\nR1 in out 1k\n.end\n")

	require.NoError(t, ed.AddComponentLine("C1 out 0 10n"))
	assert.Contains(t, ed.String(), "C1 out 0 10n\n")

	err := ed.AddComponentLine("C2 out 0")
	var ge *GrammarError
	require.ErrorAs(t, err, &ge)

	require.NoError(t, ed.RemoveComponent("R1"))
	assert.NotContains(t, ed.String(), "R1")
}

func TestAddInstruction(t *testing.T) {
	ed := openNetlist(t, "* sim\nR1 in out 1k\n.end\n")

	require.NoError(t, ed.AddInstruction(".meas tran vout MAX V(out)"))
	assert.Contains(t, ed.String(), ".meas tran vout MAX V(out)\n")

	// Identical directive twice stays a single line.
	require.NoError(t, ed.AddInstruction(".meas tran vout MAX V(out)"))
	assert.Equal(t, 1, strings.Count(ed.String(), ".meas tran vout MAX"))
}

func TestAddInstructionReplacesAnalysis(t *testing.T) {
	ed := openNetlist(t, "* sim\nR1 in out 1k\n.tran 1m\n.end\n")

	require.NoError(t, ed.AddInstruction(".ac dec 10 1 1Meg"))
	out := ed.String()
	assert.Contains(t, out, ".ac dec 10 1 1Meg\n")
	assert.NotContains(t, out, ".tran")
	assert.Equal(t, 1, strings.Count(out, ".ac "))

	// A second analysis directive replaces the first in place.
	require.NoError(t, ed.AddInstruction(".dc V1 0 5 0.1"))
	out = ed.String()
	assert.Contains(t, out, ".dc V1 0 5 0.1\n")
	assert.NotContains(t, out, ".ac ")
}

func TestAddInstructionRejectsParam(t *testing.T) {
	ed := openNetlist(t, "* sim\nR1 in out 1k\n.end\n")

	err := ed.AddInstruction(".param freq=1k")
	require.ErrorIs(t, err, ErrAmbiguousInstruction)
}

func TestAddInstructionBeforeBackanno(t *testing.T) {
	ed := openNetlist(t, "* sim\nR1 in out 1k\n.backanno\n.end\n")

	require.NoError(t, ed.AddInstruction(".tran 1m"))
	out := ed.String()
	assert.Less(t, strings.Index(out, ".tran 1m"), strings.Index(out, ".backanno"))
}

func TestRemoveInstruction(t *testing.T) {
	ed := openNetlist(t, "* sim\nR1 in out 1k\n.tran 1m\n.end\n")

	assert.True(t, ed.RemoveInstruction(".tran 1m"))
	assert.NotContains(t, ed.String(), ".tran")
	assert.False(t, ed.RemoveInstruction(".tran 1m"))
}

func TestRemoveInstructionsMatching(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* sim",
		"R1 in out 1k",
		".meas tran v1 MAX V(out)",
		".meas tran v2 MIN V(out)",
		".tran 1m",
		".end",
	}, "\n")+"\n")

	n, err := ed.RemoveInstructionsMatching(`\.MEAS`)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotContains(t, ed.String(), ".meas")
	assert.Contains(t, ed.String(), ".tran 1m\n")

	_, err = ed.RemoveInstructionsMatching(`(`)
	require.Error(t, err)
}

func TestParameters(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* params",
		".PARAM freq=1k gain=10",
		"R1 in out {gain}",
		".end",
	}, "\n")+"\n")

	v, err := ed.GetParameter("freq")
	require.NoError(t, err)
	assert.Equal(t, "1k", v)

	// An existing name updates in place, on the assignment it came from.
	require.NoError(t, ed.SetParameter("freq", "2k"))
	assert.Contains(t, ed.String(), ".PARAM freq=2k gain=10\n")
	assert.Equal(t, 1, strings.Count(ed.String(), "freq"))

	// Lookup is case-insensitive.
	v, err = ed.GetParameter("GAIN")
	require.NoError(t, err)
	assert.Equal(t, "10", v)

	// A new name gets its own directive.
	require.NoError(t, ed.SetParameterEng("cload", 10e-12))
	assert.Contains(t, ed.String(), ".PARAM cload=10p\n")

	assert.Equal(t, []string{"CLOAD", "FREQ", "GAIN"}, ed.ParameterNames())

	_, err = ed.GetParameter("missing")
	var pnf *ParamNotFoundError
	require.ErrorAs(t, err, &pnf)
}

func TestHierarchicalEditClonesOneInstance(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* hierarchy",
		".SUBCKT AMP in out",
		"R1 in out 1k",
		"C1 out 0 10n",
		".ENDS AMP",
		"X1 a b AMP",
		"X2 c d AMP",
		".end",
	}, "\n")+"\n")

	require.NoError(t, ed.SetComponentValue("X1:R1", "2k"))

	v, err := ed.GetComponentValue("X1:R1")
	require.NoError(t, err)
	assert.Equal(t, "2k", v)

	// The sibling instance still sees the shared definition.
	v, err = ed.GetComponentValue("X2:R1")
	require.NoError(t, err)
	assert.Equal(t, "1k", v)

	out := ed.String()
	assert.Contains(t, out, "X1 a b AMP_X1\n")
	assert.Contains(t, out, "X2 c d AMP\n")
	assert.Contains(t, out, ".SUBCKT AMP_X1 in out\n")
	assert.Contains(t, out, ".ENDS AMP_X1\n")
	// The private copy lands before the terminator.
	assert.Less(t, strings.Index(out, ".ENDS AMP_X1"), strings.Index(out, ".end"))

	// A second edit of the same instance reuses the copy.
	require.NoError(t, ed.SetComponentValue("X1:C1", "22n"))
	out = ed.String()
	assert.Equal(t, 1, strings.Count(out, ".SUBCKT AMP_X1 "))
	assert.NotContains(t, out, "AMP_X1_X1")

	v, err = ed.GetComponentValue("X1:C1")
	require.NoError(t, err)
	assert.Equal(t, "22n", v)
}

func TestHierarchicalReferenceNeedsSubcktInstance(t *testing.T) {
	ed := openNetlist(t, "* rc\nR1 in out 1k\n.end\n")

	_, err := ed.GetComponent("R1:R2")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestGetSubcircuit(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* hierarchy",
		".SUBCKT AMP in out",
		"R1 in out 1k",
		".ENDS AMP",
		"X1 a b AMP",
		".end",
	}, "\n")+"\n")

	sub, err := ed.GetSubcircuit("X1")
	require.NoError(t, err)
	name, err := sub.Name()
	require.NoError(t, err)
	assert.Equal(t, "AMP", name)

	assert.Equal(t, []string{"AMP"}, ed.SubcircuitNames())

	_, err = ed.GetSubcircuit("X9")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestNestedHierarchy(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* nested",
		".SUBCKT INNER a b",
		"R1 a b 1k",
		".ENDS INNER",
		".SUBCKT OUTER in out",
		"X1 in out INNER",
		".ENDS OUTER",
		"X2 p q OUTER",
		".end",
	}, "\n")+"\n")

	v, err := ed.GetComponentValue("X2:X1:R1")
	require.NoError(t, err)
	assert.Equal(t, "1k", v)

	require.NoError(t, ed.SetComponentValue("X2:X1:R1", "3k"))
	v, err = ed.GetComponentValue("X2:X1:R1")
	require.NoError(t, err)
	assert.Equal(t, "3k", v)

	out := ed.String()
	assert.Contains(t, out, "X2 p q OUTER_X2\n")
	assert.Contains(t, out, ".SUBCKT OUTER_X2 in out\n")
	assert.Contains(t, out, ".SUBCKT INNER_X1 a b\n")
}

func TestCloneBracketsWithMarkers(t *testing.T) {
	ed := openNetlist(t, strings.Join([]string{
		"* hierarchy",
		".SUBCKT AMP in out",
		"R1 in out 1k",
		".ENDS AMP",
		"X1 a b AMP",
		".end",
	}, "\n")+"\n")

	sub, err := ed.GetSubcircuit("X1")
	require.NoError(t, err)
	clone := sub.Clone()
	require.NoError(t, clone.SetName("AMP2"))

	out := clone.String()
	assert.True(t, strings.HasPrefix(out, "***** netedit manipulated"))
	assert.Contains(t, out, ".SUBCKT AMP2 in out\n")
	assert.Contains(t, out, ".ENDS AMP2\n")

	// The source definition is untouched.
	name, err := sub.Name()
	require.NoError(t, err)
	assert.Equal(t, "AMP", name)
}

func TestSetNameOnEmptyScopeSynthesizesSkeleton(t *testing.T) {
	c := newCircuit(nil)
	require.NoError(t, c.SetName("NEW"))
	out := c.String()
	assert.Contains(t, out, ".SUBCKT NEW\n")
	assert.Contains(t, out, ".ENDS NEW\n")

	name, err := c.Name()
	require.NoError(t, err)
	assert.Equal(t, "NEW", name)
}

func TestLibrarySubcircuitIsReadOnly(t *testing.T) {
	dir := t.TempDir()
	lib := strings.Join([]string{
		"* op amp models",
		".SUBCKT FILT a b",
		"R1 a b 10k",
		".ENDS FILT",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.lib"), []byte(lib), 0o644))

	main := strings.Join([]string{
		"* main",
		".inc models.lib",
		"X1 in out FILT",
		".end",
	}, "\n") + "\n"
	path := filepath.Join(dir, "main.net")
	require.NoError(t, os.WriteFile(path, []byte(main), 0o644))

	ed, err := New(path)
	require.NoError(t, err)

	sub, err := ed.GetSubcircuit("X1")
	require.NoError(t, err)
	assert.True(t, sub.IsReadOnly())
	require.ErrorIs(t, sub.SetComponentValue("R1", "1k"), ErrReadOnly)

	// Editing through the instance path copies first, then edits the copy.
	require.NoError(t, ed.SetComponentValue("X1:R1", "22k"))
	v, err := ed.GetComponentValue("X1:R1")
	require.NoError(t, err)
	assert.Equal(t, "22k", v)

	out := ed.String()
	assert.Contains(t, out, "X1 in out FILT_X1\n")
	assert.Contains(t, out, ".SUBCKT FILT_X1 a b\n")
}
