package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"", FormatText},
		{"yaml", FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.input))
		})
	}
}

func sampleTable() *Table {
	return &Table{
		Title:   "Trends",
		Headers: []string{"Series", "Slope"},
		Rows:    [][]string{{"Revenue", "12.5"}, {"Assets", "-3.0"}},
	}
}

func TestTable_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatText, false).Output(sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "Trends\n------")
	assert.Contains(t, out, "Revenue")
	assert.Contains(t, out, "-3.0")
	assert.NotContains(t, out, "\x1b[", "uncoloured output must not carry escape codes")
}

func TestTable_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatMarkdown, sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "### Trends")
	assert.Contains(t, out, "| Series | Slope |")
	assert.Contains(t, out, "| --- | --- |")
	assert.Contains(t, out, "| Revenue | 12.5 |")
}

func TestTable_JSONWithoutData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sampleTable()))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Assets", rows[1]["Series"])
}

func TestSection_ChartOnlyInMarkdown(t *testing.T) {
	s := &Section{Title: "Revenue", Lines: []string{"Status: stable"}, Chart: "```mermaid\nxychart-beta\n```"}

	var text, md bytes.Buffer
	require.NoError(t, Render(&text, FormatText, s))
	require.NoError(t, Render(&md, FormatMarkdown, s))

	assert.NotContains(t, text.String(), "mermaid")
	assert.Contains(t, md.String(), "## Revenue")
	assert.Contains(t, md.String(), "- Status: stable")
	assert.Contains(t, md.String(), "```mermaid")
}

func TestReport_JSONUsesData(t *testing.T) {
	r := &Report{Title: "X", Parts: []Renderable{sampleTable()}, Data: map[string]int{"dataPoints": 4}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, r))
	assert.JSONEq(t, `{"dataPoints": 4}`, buf.String())
}

func TestOutput_NonRenderableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, []float64{1, 2}))
	assert.Equal(t, "[\n  1,\n  2\n]", strings.TrimSpace(buf.String()))
}
