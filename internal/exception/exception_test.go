package exception

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/wfdtrace/internal/document"
	"github.com/specialistvlad/wfdtrace/internal/pathfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, xml string) *document.Document {
	t.Helper()
	doc, err := document.Parse(strings.NewReader(xml))
	require.NoError(t, err)
	return doc
}

func TestExtract_DocumentOrderAndDefaults(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<w>
		<start id="S0">
			<condition id="C1" conditionG="G1">
				<exception type="Fatal" format="Text" text="Err"/>
			</condition>
			<fork id="F1"><success>
				<condition id="C2"><exception type="Warn" format="Html"/></condition>
				<condition id="C3"/>
			</success></fork>
			<conditionGroup id="G">
				<condition id="C4" conditionGroup="Long"><exception type="T" format="F" text=""/></condition>
			</conditionGroup>
		</start>
		<orphan><condition id="C9" conditionG="G2"><exception type="Lost" format="Text"/></condition></orphan>
	</w>`)

	got := Extract(doc)
	want := []Record{
		{ConditionID: "C1", ConditionGroup: "G1", Type: "Fatal", Format: "Text", Text: "Err"},
		{ConditionID: "C2", ConditionGroup: "None", Type: "Warn", Format: "Html", Text: "None"},
		{ConditionID: "C4", ConditionGroup: "Long", Type: "T", Format: "F", Text: ""},
		{ConditionID: "C9", ConditionGroup: "G2", Type: "Lost", Format: "Text", Text: "None"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NoExceptions(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<w><start id="S0">
		<conditionGroup id="G"><condition id="C3"/><condition id="C4"/></conditionGroup>
	</start></w>`)

	assert.Empty(t, Extract(doc))
}

func TestExtract_StableAcrossRuns(t *testing.T) {
	t.Parallel()

	xml := `<w><start id="S0">
		<condition id="B"><exception type="1"/></condition>
		<condition id="A"><exception type="2"/></condition>
	</start></w>`

	first := Extract(parse(t, xml))
	second := Extract(parse(t, xml))
	assert.Equal(t, first, second)
	assert.Equal(t, "B", first[0].ConditionID)
}

func TestRecord_Trace(t *testing.T) {
	t.Parallel()

	var r Record
	_, ok := r.Trace()
	assert.False(t, ok)

	r.Path = pathfind.Path{{From: "S0", To: "C1"}}
	s, ok := r.Trace()
	assert.True(t, ok)
	assert.Equal(t, "S0 --[]--> C1", s)
}
