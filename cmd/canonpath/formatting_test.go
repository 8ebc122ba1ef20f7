package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormattingNoColor(t *testing.T) {
	prev := noColor
	defer func() { noColor = prev }()

	noColor = true
	assert.Equal(t, "plain", formatBold("plain"))
	assert.Equal(t, "failed", formatError("failed"))
}

func TestFormatUpper(t *testing.T) {
	assert.Equal(t, "PATH", formatUpper("path"))
}
