package fileParsing

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 16000

func tone(d time.Duration) []int {
	n := int(d.Seconds() * testSampleRate)
	samples := make([]int, n)
	for i := range samples {
		samples[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/testSampleRate))
	}
	return samples
}

func silence(d time.Duration) []int {
	return make([]int, int(d.Seconds()*testSampleRate))
}

func writeWAV(t *testing.T, samples []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lecture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, testSampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: testSampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

type stubTranscriber struct {
	calls   int
	failOn  int
	replies []string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	s.calls++
	f, err := os.Open(wavPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if !wav.NewDecoder(f).IsValidFile() {
		return "", errors.New("chunk is not a wav file")
	}
	if s.calls == s.failOn {
		return "", ErrNoSpeech
	}
	return s.replies[s.calls-1], nil
}

func twoUtterances() []int {
	var samples []int
	samples = append(samples, tone(500*time.Millisecond)...)
	samples = append(samples, silence(1500*time.Millisecond)...)
	samples = append(samples, tone(500*time.Millisecond)...)
	return samples
}

func TestParseAudio_SplitsOnSilence(t *testing.T) {
	path := writeWAV(t, twoUtterances())
	transcriber := &stubTranscriber{replies: []string{"first sentence", "second sentence"}}
	p := NewParser(DefaultOptions(), transcriber)

	segments, err := p.ParseFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []string{"first sentence", "second sentence"}, segments)
	assert.Equal(t, 2, transcriber.calls)
}

func TestParseAudio_SkipsFailedChunk(t *testing.T) {
	path := writeWAV(t, twoUtterances())
	transcriber := &stubTranscriber{failOn: 1, replies: []string{"", "second sentence"}}
	p := NewParser(DefaultOptions(), transcriber)

	segments, err := p.ParseFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []string{"second sentence"}, segments)
}

func TestParseAudio_FixedWindow(t *testing.T) {
	path := writeWAV(t, tone(2500*time.Millisecond))
	transcriber := &stubTranscriber{replies: []string{"a", "b", "c"}}
	p := NewParser(Options{AudioWindow: time.Second}, transcriber)

	segments, err := p.ParseFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, segments)
}

func TestParseAudio_CancelledContext(t *testing.T) {
	path := writeWAV(t, twoUtterances())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewParser(DefaultOptions(), &stubTranscriber{replies: []string{"a", "b"}})

	_, err := p.ParseFile(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitOnSilence_PadsSpans(t *testing.T) {
	a := pcm{
		buf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: 1, SampleRate: testSampleRate},
			Data:   twoUtterances(),
		},
		bitDepth: 16,
	}

	spans := splitOnSilence(a, 1100*time.Millisecond, -70, 100*time.Millisecond)

	require.Len(t, spans, 2)
	assert.Equal(t, frameRange{0, 8000 + 1600}, spans[0])
	assert.Equal(t, frameRange{32000 - 1600, 40000}, spans[1])
}
