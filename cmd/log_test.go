package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, false)
	l.Debug("hidden detail")
	l.Info("fetched repositories", "count", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden detail")
	assert.Contains(t, out, "fetched repositories")
	assert.Contains(t, out, "count=3")
}

func TestNewLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, true)
	l.Debug("shortlist lookup failed", "repo", "ghost")

	assert.Contains(t, buf.String(), "shortlist lookup failed")
	assert.Contains(t, buf.String(), "repo=ghost")
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, true))
	p.done("gallery built", "projects", 2)

	assert.Contains(t, buf.String(), "gallery built")
	assert.Contains(t, buf.String(), "elapsed=")
}
