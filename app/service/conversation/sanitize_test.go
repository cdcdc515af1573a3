package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogueIsIdentity(t *testing.T) {
	reply, err := Dialogue{}.Sanitize("  /addnode X\n")
	require.NoError(t, err)
	assert.Equal(t, "  /addnode X\n", reply.Text)
	assert.Nil(t, reply.Record)
}

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fenced",
			input: "Sure!\n```json\n{\"a\": 1}\n```\nbye",
			want:  `{"a": 1}`,
		},
		{
			name:  "first fence wins",
			input: "```json\n{\"a\": 1}\n```\n```json\n{\"b\": 2}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "unterminated",
			input: "```json\n{\"a\": 1}",
			want:  `{"a": 1}`,
		},
		{
			name:  "raw",
			input: "  {\"a\": 1}  ",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONBlock(tt.input))
		})
	}
}

func TestConceptRecord(t *testing.T) {
	raw := "```json\n{\"concept\": \"Recursion\", \"prerequisites\": [\"Functions\", \"Stacks\"]}\n```"

	reply, err := ConceptRecord{}.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Recursion", reply.Record["concept"])
	assert.Equal(t, []any{"Functions", "Stacks"}, reply.Record["prerequisites"])
}

func TestConceptRecordFallsBackToRawReply(t *testing.T) {
	reply, err := ConceptRecord{}.Sanitize(`{"concept": "Loops"}`)
	require.NoError(t, err)
	assert.Equal(t, "Loops", reply.Record["concept"])
}

func TestConceptRecordRejectsNonJSON(t *testing.T) {
	_, err := ConceptRecord{}.Sanitize("I think you should learn loops first.")
	assert.Error(t, err)
}
