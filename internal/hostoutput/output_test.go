package hostoutput

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_NonFileWriterDisablesColor(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.Success("done")
	assert.Equal(t, "✓ done\n", buf.String())
}

func TestStatus_EmptyIconIndents(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.Status("", "plain line")
	assert.Equal(t, "  plain line\n", buf.String())
}

func TestStatusf_Formats(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.Statusf("*", "found %d docs", 3)
	assert.Equal(t, "* found 3 docs\n", buf.String())
}

func TestErrorf_Formats(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.Errorf("bad index: %s", "checksum")
	assert.Contains(t, buf.String(), "bad index: checksum")
}

func TestResultLine_IncludesHrefAndSnippet(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.ResultLine(1, "/guide", "Getting Started", "...quick start...")
	out := buf.String()
	assert.Contains(t, out, "Getting Started")
	assert.Contains(t, out, "/guide")
	assert.Contains(t, out, "quick start")
}
