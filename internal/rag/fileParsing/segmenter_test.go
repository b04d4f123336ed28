package fileParsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHardChunk_CountsRunes(t *testing.T) {
	chunks := hardChunk("ééééé", 2)

	assert.Equal(t, []string{"éé", "éé", "é"}, chunks)
}

func TestSegmentLines_OverBudgetFlush(t *testing.T) {
	segments := segmentLines([]string{"aaaa", "bbbb", "cc"}, 6)

	assert.Equal(t, []string{"aaaa bbbb", "cc"}, segments)
}

func TestSegmentLines_HelloWorldStaysWhole(t *testing.T) {
	segments := segmentLines([]string{"Hello. World."}, 1000)

	assert.Equal(t, []string{"Hello. World."}, segments)
}

func TestSegmentLines_LongLineWithoutPeriodsIsChunked(t *testing.T) {
	line := strings.Repeat("x", 4000)

	segments := segmentLines([]string{line}, 1000)

	require.Len(t, segments, 4)
	for _, s := range segments {
		assert.LessOrEqual(t, runeLen(s), 1000)
	}
	assert.Equal(t, line, strings.Join(segments, ""))
}

func TestSegmentLines_LongLineFlushesAtEachSentence(t *testing.T) {
	line := strings.Repeat("Short sentence number one. ", 150)

	segments := segmentLines([]string{line}, 1000)

	require.Len(t, segments, 150)
	for _, s := range segments {
		assert.Equal(t, "Short sentence number one.", s)
	}
}

func TestSegmentLines_LongLineTailJoinsNextLine(t *testing.T) {
	line := "First sentence. " + strings.Repeat("y", 30)

	segments := segmentLines([]string{"intro", line, "end."}, 20)

	assert.Equal(t, []string{"intro", "First sentence.", strings.Repeat("y", 20), "yyyyyyyyyy end."}, segments)
	for _, s := range segments {
		assert.LessOrEqual(t, runeLen(s), 20)
	}
}

func TestCombineSections_LookbackKeepsOverflow(t *testing.T) {
	segments := combineSections([]string{"aaa", "bbb", "ccc"}, 7)

	// "aaa"+"bbb" fits, "ccc" overflows and reopens with "bbb"
	assert.Equal(t, []string{"aaabbb", "bbbccc"}, segments)
}

func TestCombineSections_OverflowAloneWhenPairTooLarge(t *testing.T) {
	segments := combineSections([]string{"aaaaa", "bbbbb"}, 8)

	assert.Equal(t, []string{"aaaaa", "bbbbb"}, segments)
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("One. Two. Three.", 100)

	assert.Equal(t, []string{"One.", " Two.", " Three."}, sentences)
}

func TestSplitSentences_LongSentenceIsChunked(t *testing.T) {
	long := strings.Repeat("x", 25)

	sentences := splitSentences(long+".", 20)

	assert.Equal(t, []string{strings.Repeat("x", 20), "xxxxx."}, sentences)
}

func TestCombineSentences_OverlapKeepsTriggeringSentence(t *testing.T) {
	sentences := []string{"AAAA.", "BBBB.", "CCCC.", "DDDD."}

	segments := combineSentences(sentences, 12, 1)

	assert.Equal(t, []string{"AAAA.BBBB.", "BBBB.CCCC.", "CCCC.DDDD."}, segments)
}

func TestCombineSentences_OverlapTrimmedToFitBudget(t *testing.T) {
	sentences := []string{"AAAA.", "BBBB.", "CCCC.", "DDDD."}

	segments := combineSentences(sentences, 12, 2)

	assert.Equal(t, []string{"AAAA.BBBB.", "BBBB.CCCC.", "CCCC.DDDD."}, segments)
	for _, s := range segments {
		assert.LessOrEqual(t, runeLen(s), 12)
	}
}

func TestCombineSentences_NoOverlap(t *testing.T) {
	sentences := []string{"AAAA.", "BBBB.", "CCCC."}

	segments := combineSentences(sentences, 12, 0)

	assert.Equal(t, []string{"AAAA.BBBB.", "CCCC."}, segments)
}
