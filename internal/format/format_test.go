package format

import (
	"strings"
	"testing"
)

func TestReply(t *testing.T) {
	t.Parallel()

	type formatTestCase struct {
		name  string
		input string
		label string
		want  string
	}

	testGroups := map[string][]formatTestCase{
		"Speaker Prefix": {
			{
				name:  "adds prefix",
				input: "Hello there.",
				label: "SapphAI",
				want:  "SapphAI: Hello there.",
			},
			{
				name:  "no double prefix",
				input: "SapphAI: Hello there.",
				label: "SapphAI",
				want:  "SapphAI: Hello there.",
			},
			{
				name:  "prefix without space still recognized",
				input: "SapphAI:Hello.",
				label: "SapphAI",
				want:  "SapphAI:Hello.",
			},
		},
		"Bullet Normalization": {
			{
				name:  "star bullets",
				input: "Options:\n* one\n* two",
				label: "SapphAI",
				want:  "SapphAI: Options:\n- one\n- two",
			},
			{
				name:  "numbered bullets",
				input: "Steps:\n1. first\n2. second",
				label: "SapphAI",
				want:  "SapphAI: Steps:\n- first\n- second",
			},
		},
		"Punctuation Cleanup": {
			{
				name:  "collapses exclamation runs",
				input: "Amazing!!!",
				label: "SapphAI",
				want:  "SapphAI: Amazing!",
			},
			{
				name:  "collapses question runs",
				input: "Really???",
				label: "SapphAI",
				want:  "SapphAI: Really?",
			},
		},
	}

	for groupName, cases := range testGroups {
		for _, tc := range cases {
			t.Run(groupName+"/"+tc.name, func(t *testing.T) {
				t.Parallel()
				if got := Reply(tc.input, tc.label); got != tc.want {
					t.Errorf("Reply(%q, %q) = %q, want %q", tc.input, tc.label, got, tc.want)
				}
			})
		}
	}
}

func TestReplyParagraphBreaks(t *testing.T) {
	t.Parallel()

	short := "First point. Second point."
	if got := Reply(short, "SapphAI"); strings.Contains(got, "\n\n") {
		t.Errorf("short reply should not get paragraph breaks, got %q", got)
	}

	long := strings.Repeat("This is a fairly long sentence about gaming. ", 4) + "The end."
	got := Reply(long, "SapphAI")
	if !strings.Contains(got, ".\n\nT") {
		t.Errorf("long reply should get paragraph breaks after sentences, got %q", got)
	}
}
