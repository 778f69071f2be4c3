package helpers

import "testing"

func TestSplitThink(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		in            string
		wantAnswer    string
		wantReasoning string
	}{
		{
			name:       "no tags",
			in:         "plain answer",
			wantAnswer: "plain answer",
		},
		{
			name:          "single pair",
			in:            "<think>step by step</think>the answer",
			wantAnswer:    "the answer",
			wantReasoning: "step by step",
		},
		{
			name:          "multiple pairs accumulate",
			in:            "<think>first</think>part one <think>second</think>part two",
			wantAnswer:    "part one part two",
			wantReasoning: "first\nsecond",
		},
		{
			name:          "unterminated tag swallows remainder",
			in:            "prefix <think>never closed",
			wantAnswer:    "prefix",
			wantReasoning: "never closed",
		},
		{
			name:          "everything inside tags leaves empty answer",
			in:            "<think>all reasoning, no answer</think>",
			wantAnswer:    "",
			wantReasoning: "all reasoning, no answer",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			answer, reasoning := SplitThink(tt.in)
			if answer != tt.wantAnswer {
				t.Fatalf("answer = %q, want %q", answer, tt.wantAnswer)
			}
			if reasoning != tt.wantReasoning {
				t.Fatalf("reasoning = %q, want %q", reasoning, tt.wantReasoning)
			}
		})
	}
}
