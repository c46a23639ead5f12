package graph

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/wfdtrace/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFromString parses and builds a workflow held in a string.
func buildFromString(t *testing.T, xml string, opts Options) (*Graph, error) {
	t.Helper()
	doc, err := document.Parse(strings.NewReader(xml))
	require.NoError(t, err)
	return Build(context.Background(), doc, opts)
}

func mustBuild(t *testing.T, xml string) *Graph {
	t.Helper()
	g, err := buildFromString(t, xml, Options{})
	require.NoError(t, err)
	return g
}

func TestBuild_SingleCondition(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<condition id="C1" conditionG="G1">
				<exception type="Fatal" format="Text" text="Err"/>
			</condition>
		</start>
	</wfd>`)

	assert.Equal(t, "S0", g.Start())
	want := []Edge{{From: "S0", To: "C1", Label: LabelNone}}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	c1, ok := g.Node("C1")
	require.True(t, ok)
	assert.Equal(t, KindCondition, c1.Kind)
	require.NotNil(t, c1.Exception)
	assert.Equal(t, Exception{Type: "Fatal", Format: "Text", Text: "Err"}, *c1.Exception)
}

func TestBuild_ForkBranches(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<fork id="F1">
				<success><condition id="C2"/></success>
				<failure><end id="E1"/></failure>
			</fork>
		</start>
	</wfd>`)

	want := []Edge{
		{From: "S0", To: "F1", Label: LabelNone},
		{From: "F1", To: "C2", Label: LabelSuccess},
		{From: "F1", To: "E1", Label: LabelFailure},
	}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_BranchSiblingsShareSource(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<fork id="F1">
				<success>
					<operation id="O1"/>
					<operation id="O2"/>
				</success>
			</fork>
		</start>
	</wfd>`)

	want := []Edge{
		{From: "F1", To: "O1", Label: LabelSuccess},
		{From: "F1", To: "O2", Label: LabelSuccess},
	}
	if diff := cmp.Diff(want, g.OutEdges("F1")); diff != "" {
		t.Errorf("out edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ConditionIgnoresFailureBranch(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<condition id="C1">
				<success><end id="E1"/></success>
				<failure><end id="E2"/></failure>
			</condition>
		</start>
	</wfd>`)

	assert.True(t, g.Has("E1"))
	assert.False(t, g.Has("E2"))
	assert.True(t, g.HasEdge("C1", LabelSuccess, "E1"))
}

func TestBuild_ConditionGroupLinksChildrenOnly(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<conditionGroup id="G">
				<condition id="C3"><success><end id="E9"/></success></condition>
				<condition id="C4"/>
				<operation id="ignored"/>
			</conditionGroup>
		</start>
	</wfd>`)

	for _, id := range []string{"G", "C3", "C4"} {
		assert.True(t, g.Has(id), "expected node %s", id)
	}
	assert.False(t, g.Has("E9"), "group children must not be traversed")
	assert.False(t, g.Has("ignored"))

	want := []Edge{
		{From: "G", To: "C3", Label: LabelNone},
		{From: "G", To: "C4", Label: LabelNone},
	}
	if diff := cmp.Diff(want, g.OutEdges("G")); diff != "" {
		t.Errorf("group edges mismatch (-want +got):\n%s", diff)
	}

	g3, _ := g.Node("G")
	assert.Equal(t, KindConditionGroup, g3.Kind)
}

func TestBuild_OperationAndLabelChain(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<operation id="O1">
				<label id="L1">
					<end id="E1"/>
				</label>
			</operation>
		</start>
	</wfd>`)

	want := []Edge{
		{From: "S0", To: "O1"},
		{From: "O1", To: "L1"},
		{From: "L1", To: "E1"},
	}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	kinds := map[string]Kind{}
	for _, n := range g.Nodes() {
		kinds[n.ID] = n.Kind
	}
	assert.Equal(t, map[string]Kind{"S0": KindStart, "O1": KindOperation, "L1": KindLabel, "E1": KindEnd}, kinds)
}

func TestBuild_JumpCreatesEdgeNotNode(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<fork id="F1">
				<failure><jump location="L1"/></failure>
				<success>
					<label id="L1"><end id="E1"/></label>
				</success>
			</fork>
		</start>
	</wfd>`)

	assert.True(t, g.HasEdge("F1", LabelFailure, "L1"))
	assert.True(t, g.HasEdge("F1", LabelSuccess, "L1"), "parallel edges with different labels must be kept")
	assert.Len(t, g.OutEdges("F1"), 2)
	assert.Empty(t, g.DanglingTargets())
	for _, n := range g.Nodes() {
		assert.NotEqual(t, KindJump, n.Kind)
	}
}

func TestBuild_JumpBackwardsFormsCycle(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<label id="L1">
				<operation id="O1">
					<jump location="L1"/>
				</operation>
			</label>
		</start>
	</wfd>`)

	assert.True(t, g.HasEdge("O1", LabelNone, "L1"))
	assert.Equal(t, 3, g.Len())
}

func TestBuild_DanglingJumpTarget(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<jump location="NOWHERE"/>
			<operation id="O1"><jump location="NOWHERE"/></operation>
		</start>
	</wfd>`)

	assert.Equal(t, []string{"NOWHERE"}, g.DanglingTargets())
	assert.False(t, g.Has("NOWHERE"))
}

func TestBuild_UnknownTagsSkipped(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<comment>ignored</comment>
			<somethingNew id="X1"><end id="E0"/></somethingNew>
			<end id="E1"/>
		</start>
	</wfd>`)

	assert.False(t, g.Has("X1"))
	assert.False(t, g.Has("E0"))
	assert.True(t, g.HasEdge("S0", LabelNone, "E1"))
}

func TestBuild_ElementsWithoutIDAreSkipped(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<end/>
			<operation><end id="E9"/></operation>
			<jump/>
			<conditionGroup id="G"><condition/><condition id="C4"/></conditionGroup>
			<condition id="C1"><exception type="Fatal"/></condition>
		</start>
	</wfd>`)

	assert.True(t, g.HasEdge("S0", LabelNone, "C1"), "siblings after an id-less element are still linked")
	assert.True(t, g.HasEdge("G", LabelNone, "C4"))
	assert.False(t, g.Has(""))
	assert.False(t, g.Has("E9"), "the subtree of a skipped element is not traversed")
	assert.Equal(t, []string{
		"/wfd/start/end",
		"/wfd/start/operation",
		"/wfd/start/jump",
		"/wfd/start/conditionGroup/condition",
	}, g.SkippedElements())
	assert.Empty(t, g.DanglingTargets())
}

func TestBuild_StartWithoutIDFails(t *testing.T) {
	t.Parallel()

	_, err := buildFromString(t, `<wfd><start><end id="E1"/></start></wfd>`, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingID))

	var missing *MissingIDError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "start", missing.Tag)
}

func TestBuild_DuplicateIDRejected(t *testing.T) {
	t.Parallel()

	xml := `<wfd>
		<start id="S0">
			<condition id="C1"><exception type="A" format="Text"/></condition>
			<condition id="C1"><exception type="B" format="Text"/></condition>
		</start>
	</wfd>`

	for i := 0; i < 3; i++ {
		g, err := buildFromString(t, xml, Options{Duplicates: DuplicateReject})
		require.Error(t, err)
		assert.Nil(t, g)

		var dup *DuplicateNodeIDError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "C1", dup.ID)
		assert.Equal(t, KindCondition, dup.Existing)
		assert.ErrorIs(t, err, ErrDuplicateNodeID)
	}
}

func TestBuild_DuplicateIDDefaultsToReject(t *testing.T) {
	t.Parallel()

	_, err := buildFromString(t, `<wfd><start id="S0"><end id="S0"/></start></wfd>`, Options{})
	assert.ErrorIs(t, err, ErrDuplicateNodeID)
}

func TestBuild_DuplicateIDOverwrite(t *testing.T) {
	t.Parallel()

	xml := `<wfd>
		<start id="S0">
			<condition id="C1"><exception type="A" format="Text"/></condition>
			<fork id="F1"><success>
				<condition id="C1"><exception type="B" format="Html" text="later"/></condition>
			</success></fork>
		</start>
	</wfd>`

	g, err := buildFromString(t, xml, Options{Duplicates: DuplicateOverwrite})
	require.NoError(t, err)

	c1, ok := g.Node("C1")
	require.True(t, ok)
	require.NotNil(t, c1.Exception)
	assert.Equal(t, Exception{Type: "B", Format: "Html", Text: "later"}, *c1.Exception)

	assert.Equal(t, []string{"S0", "C1", "F1"}, nodeIDs(g), "overwrite keeps the first insertion position")
	assert.True(t, g.HasEdge("S0", LabelNone, "C1"))
	assert.True(t, g.HasEdge("F1", LabelSuccess, "C1"))
}

func TestBuild_EveryNodeReachableFromStart(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd>
		<start id="S0">
			<fork id="F1">
				<success>
					<operation id="O1">
						<conditionGroup id="G1">
							<condition id="C1"/><condition id="C2"/>
						</conditionGroup>
					</operation>
				</success>
				<failure>
					<condition id="C3"><success><label id="L1"><end id="E1"/></label></success></condition>
				</failure>
			</fork>
		</start>
		<orphan><condition id="C9"/></orphan>
	</wfd>`)

	reachable := g.Reachable(g.Start())
	for _, n := range g.Nodes() {
		assert.True(t, reachable[n.ID], "node %s is not reachable from start", n.ID)
	}
	assert.False(t, g.Has("C9"), "elements outside the entry subtree are not built")
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	xml := `<wfd><start id="S0">
		<fork id="F1"><success><condition id="C1"/></success><failure><jump location="S0"/></failure></fork>
	</start></wfd>`

	first := mustBuild(t, xml)
	second := mustBuild(t, xml)
	if diff := cmp.Diff(first.Nodes(), second.Nodes()); diff != "" {
		t.Errorf("nodes differ between builds (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Edges(), second.Edges()); diff != "" {
		t.Errorf("edges differ between builds (-first +second):\n%s", diff)
	}
}

func TestBuild_DeepNestingDoesNotRecurse(t *testing.T) {
	t.Parallel()

	const depth = 5000
	var sb strings.Builder
	sb.WriteString(`<wfd><start id="S0">`)
	for i := 0; i < depth; i++ {
		sb.WriteString(`<operation id="O`)
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(`">`)
	}
	for i := 0; i < depth; i++ {
		sb.WriteString(`</operation>`)
	}
	sb.WriteString(`</start></wfd>`)

	g := mustBuild(t, sb.String())
	assert.Equal(t, depth+1, g.Len())
}

func TestParseDuplicatePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DuplicateReject, p)

	p, err = ParseDuplicatePolicy("overwrite")
	require.NoError(t, err)
	assert.Equal(t, DuplicateOverwrite, p)

	_, err = ParseDuplicatePolicy("merge")
	assert.Error(t, err)
}

func TestGraph_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, `<wfd><start id="S0"><condition id="C1"><exception type="T"/></condition></start></wfd>`)

	n, _ := g.Node("C1")
	n.Exception.Type = "mutated"
	edges := g.Edges()
	edges[0].Label = "mutated"

	again, _ := g.Node("C1")
	assert.Equal(t, "T", again.Exception.Type)
	assert.Equal(t, LabelNone, g.Edges()[0].Label)
}

func nodeIDs(g *Graph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}
