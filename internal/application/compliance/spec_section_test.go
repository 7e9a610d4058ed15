package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eipDoc = `---
eip: 1559
title: Fee market change
---

## Abstract

A transaction pricing mechanism.

## Specification

The base fee per gas is adjusted each block.
Blocks may use up to twice the gas target.

## Rationale

We chose this because reasons.
`

func TestSpecSectionExtractsSpecificationHeading(t *testing.T) {
	got := SpecSection(eipDoc, 0)

	assert.Contains(t, got, "base fee per gas")
	assert.Contains(t, got, "twice the gas target")
	assert.NotContains(t, got, "Abstract")
	assert.NotContains(t, got, "because reasons")
}

func TestSpecSectionHeadingMatchIsCaseInsensitive(t *testing.T) {
	doc := "## SPECIFICATION\n\nthe rules\n\n## Other\n\nnope\n"
	got := SpecSection(doc, 0)

	assert.Contains(t, got, "the rules")
	assert.NotContains(t, got, "nope")
}

func TestSpecSectionFallsBackToBoundedPrefix(t *testing.T) {
	doc := strings.Repeat("no headings here. ", 1000)
	got := SpecSection(doc, 100)

	assert.Len(t, got, 100)
	assert.True(t, strings.HasPrefix(doc, got))
}

func TestSpecSectionShortDocReturnedWhole(t *testing.T) {
	doc := "just a short paragraph"
	assert.Equal(t, doc, SpecSection(doc, 0))
}
