// Package chunker splits raw document text into overlapping,
// word-boundary-respecting fragments of bounded size.
package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"emailrag/internal/domain"
)

// MinFragmentLength is the trimmed length below which fragments are
// discarded as noise (stray headers, artifacts).
const MinFragmentLength = 50

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:]`)
)

// Normalize collapses whitespace runs to single spaces and replaces
// characters outside letters, digits, whitespace, and basic punctuation
// with a space.
func Normalize(text string) string {
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return specialRe.ReplaceAllString(text, " ")
}

// Split slides a window of chunkSize characters across the normalized text
// with step chunkSize-overlap. Windows that would cut a word are retracted
// to the last space past the window midpoint, so the effective overlap is
// approximate whenever a boundary adjustment occurred. Once the window
// reaches the text end no retraction happens and the step is taken from the
// arithmetic edge start+chunkSize, not the clamped one. Fragments whose
// trimmed length is MinFragmentLength or less are dropped.
//
// Empty or whitespace-only input yields an empty result. Malformed
// parameters are rejected before any work is done.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", domain.ErrInvalidChunkParams, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d with chunk size %d", domain.ErrInvalidChunkParams, overlap, chunkSize)
	}

	runes := []rune(Normalize(text))
	total := len(runes)

	var fragments []string
	start := 0
	for start < total {
		edge := start + chunkSize
		end := edge
		if end > total {
			end = total
		}
		window := runes[start:end]

		// Retract to a word boundary, but only past the midpoint so we
		// never emit degenerate tiny fragments.
		if edge < total {
			if sp := lastSpace(window); sp > chunkSize/2 {
				window = window[:sp]
				end = start + sp
			}
		}

		fragment := strings.TrimSpace(string(window))
		if utf8.RuneCountInString(fragment) > MinFragmentLength {
			fragments = append(fragments, fragment)
		}

		if edge >= total {
			// The window already covers the text end. Stepping from the
			// clamped end would re-enter the emitted tail, so the step is
			// taken from the arithmetic edge; overlap < chunkSize
			// guarantees progress.
			start = edge - overlap
			continue
		}

		next := end - overlap
		if next <= start {
			// Guards against zero progress when the boundary retraction
			// lands at or before start+overlap.
			next = start + 1
		}
		start = next
	}
	return fragments, nil
}

func lastSpace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == ' ' {
			return i
		}
	}
	return -1
}
