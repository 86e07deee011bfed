// Package format normalizes model replies for display: speaker prefix,
// bullet style, paragraph breaks, and punctuation cleanup.
package format

import (
	"regexp"
	"strings"
)

// paragraphThreshold is the reply length above which paragraph breaks are
// inserted after sentence-ending punctuation.
const paragraphThreshold = 150

var (
	starBullet     = regexp.MustCompile(`\n\*`)
	numberedBullet = regexp.MustCompile(`\n\d\.`)
	sentenceBreak  = regexp.MustCompile(`([.!?])\s+([A-Z])`)
	bangRun        = regexp.MustCompile(`!{2,}`)
	questionRun    = regexp.MustCompile(`\?{2,}`)
)

// Reply applies the display transform to a raw model reply. It must be
// applied exactly once: the paragraph-break rule is not idempotent and
// re-application can over-insert breaks.
func Reply(text, speakerLabel string) string {
	if !strings.HasPrefix(text, speakerLabel+":") {
		text = speakerLabel + ": " + text
	}

	text = starBullet.ReplaceAllString(text, "\n-")
	text = numberedBullet.ReplaceAllString(text, "\n-")

	if len(text) > paragraphThreshold {
		text = sentenceBreak.ReplaceAllString(text, "$1\n\n$2")
	}

	text = bangRun.ReplaceAllString(text, "!")
	text = questionRun.ReplaceAllString(text, "?")

	return text
}
