// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteDump(t *testing.T) {
	e := newTestEngine(t, 1)
	e.Ingest("hello there")
	e.Ingest("hello there again")

	var b bytes.Buffer
	e.WriteDump(&b, 0)
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "3 words known, 5 observed"))
	assert.Contains(t, out, "there(2)")
	assert.Contains(t, out, "again(1)")
	assert.Contains(t, out, "<end>(1)")
	assert.Contains(t, out, "3 of 3 words shown")

	b.Reset()
	e.WriteDump(&b, 1)
	assert.Contains(t, b.String(), "1 of 3 words shown")
	assert.NotContains(t, b.String(), "again(1)", "only the top word is listed")
}
