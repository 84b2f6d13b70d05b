package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvassbo/mnemo/internal/models"
)

func TestMessage_RoundTrip(t *testing.T) {
	meta := Metadata{
		Operation: models.OpSnap,
		Message:   "Fix the parser fallback",
		Prompt:    "Fix the parser fallback so malformed input is rejected",
		Response:  "Added a guard clause to the tokenizer",
		AgentPlan: []string{"parser.go: add guard", "parser_test.go: cover malformed input"},
		Files:     []string{"parser.go", "parser_test.go"},
		Session:   "0b51bd4e",
		ByUser:    true,
	}

	got := ParseMessage(EncodeMessage(meta))

	assert.Equal(t, meta.Message, got.Message)
	assert.Equal(t, meta.Operation, got.Operation)
	assert.Equal(t, meta.Prompt, got.Prompt)
	assert.Equal(t, meta.Response, got.Response)
	assert.Equal(t, meta.AgentPlan, got.AgentPlan)
	assert.Equal(t, meta.Files, got.Files)
	assert.Equal(t, meta.Session, got.Session)
	assert.True(t, got.ByUser)
}

func TestMessage_MinimalFields(t *testing.T) {
	meta := Metadata{Operation: models.OpTrack, Message: "Track project files"}

	got := ParseMessage(EncodeMessage(meta))

	assert.Equal(t, "Track project files", got.Message)
	assert.Equal(t, models.OpTrack, got.Operation)
	assert.Empty(t, got.Files)
	assert.Empty(t, got.AgentPlan)
	assert.False(t, got.ByUser)
}

func TestMessage_MultilinePrompt(t *testing.T) {
	meta := Metadata{
		Operation: models.OpSnap,
		Message:   "Refactor",
		Prompt:    "Refactor the loader.\nKeep the public API stable.",
	}

	got := ParseMessage(EncodeMessage(meta))
	assert.Equal(t, meta.Prompt, got.Prompt)
}

func TestMessage_ForeignText(t *testing.T) {
	got := ParseMessage("some commit made by hand\n\nwith a free-form body")
	assert.Equal(t, "some commit made by hand", got.Message)
	assert.Empty(t, got.Prompt)
}
