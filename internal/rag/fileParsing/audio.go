package fileParsing

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// ErrNoSpeech is returned by a Transcriber when a chunk holds no recognisable
// speech. The chunk is skipped.
var ErrNoSpeech = errors.New("speech not recognised")

// Transcriber turns one WAV chunk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// pcm is decoded interleaved audio.
type pcm struct {
	buf      *audio.IntBuffer
	bitDepth int
}

func (a pcm) channels() int {
	if a.buf.Format.NumChannels < 1 {
		return 1
	}
	return a.buf.Format.NumChannels
}

func (a pcm) frames() int {
	return len(a.buf.Data) / a.channels()
}

func (a pcm) framesFor(d time.Duration) int {
	return int(d.Seconds() * float64(a.buf.Format.SampleRate))
}

// frameRange is a half-open [start, end) span of sample frames.
type frameRange struct {
	start int
	end   int
}

func decodeWAV(r io.ReadSeeker) (pcm, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return pcm{}, errors.New("invalid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return pcm{}, fmt.Errorf("failed to decode wav: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate == 0 {
		return pcm{}, errors.New("wav file has no sample rate")
	}
	return pcm{buf: buf, bitDepth: int(d.BitDepth)}, nil
}

// decodeMP3 yields 16 bit stereo, which is what go-mp3 always produces.
func decodeMP3(r io.Reader) (pcm, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, fmt.Errorf("failed to decode mp3: %w", err)
	}
	raw, err := io.ReadAll(d)
	if err != nil {
		return pcm{}, fmt.Errorf("failed to decode mp3: %w", err)
	}
	data := make([]int, len(raw)/2)
	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}
	return pcm{
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: d.SampleRate()},
			Data:           data,
			SourceBitDepth: 16,
		},
		bitDepth: 16,
	}, nil
}

// dBFS of the frames in [start, end), -Inf for digital silence.
func (a pcm) dBFS(start, end int) float64 {
	ch := a.channels()
	samples := a.buf.Data[start*ch : end*ch]
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	maxAmp := math.Pow(2, float64(a.bitDepth-1))
	return 20 * math.Log10(rms/maxAmp)
}

// splitOnSilence returns the non-silent spans, where silence is a run of at
// least minSilence below thresh dBFS. Each span is padded by keep on both sides.
func splitOnSilence(a pcm, minSilence time.Duration, thresh float64, keep time.Duration) []frameRange {
	total := a.frames()
	if total == 0 {
		return nil
	}
	step := a.buf.Format.SampleRate / 100 // 10ms analysis windows
	if step < 1 {
		step = 1
	}
	minFrames := a.framesFor(minSilence)

	var silences []frameRange
	runStart := -1
	for pos := 0; pos < total; pos += step {
		end := pos + step
		if end > total {
			end = total
		}
		if a.dBFS(pos, end) < thresh {
			if runStart < 0 {
				runStart = pos
			}
			continue
		}
		if runStart >= 0 && pos-runStart >= minFrames {
			silences = append(silences, frameRange{runStart, pos})
		}
		runStart = -1
	}
	if runStart >= 0 && total-runStart >= minFrames {
		silences = append(silences, frameRange{runStart, total})
	}

	var spans []frameRange
	cursor := 0
	for _, s := range silences {
		if s.start > cursor {
			spans = append(spans, frameRange{cursor, s.start})
		}
		cursor = s.end
	}
	if cursor < total {
		spans = append(spans, frameRange{cursor, total})
	}

	pad := a.framesFor(keep)
	for i := range spans {
		spans[i].start = max(0, spans[i].start-pad)
		spans[i].end = min(total, spans[i].end+pad)
	}
	return spans
}

// splitByWindow cuts the audio into fixed windows, the last one may be shorter.
func splitByWindow(a pcm, window time.Duration) []frameRange {
	total := a.frames()
	size := a.framesFor(window)
	if size < 1 {
		size = total
	}
	var spans []frameRange
	for start := 0; start < total; start += size {
		spans = append(spans, frameRange{start, min(total, start+size)})
	}
	return spans
}

func writeChunk(path string, a pcm, span frameRange) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	ch := a.channels()
	enc := wav.NewEncoder(f, a.buf.Format.SampleRate, a.bitDepth, ch, 1)
	chunk := &audio.IntBuffer{
		Format:         a.buf.Format,
		Data:           a.buf.Data[span.start*ch : span.end*ch],
		SourceBitDepth: a.bitDepth,
	}
	if err := enc.Write(chunk); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseAudio produces one segment per transcribed chunk. Chunks that fail to
// transcribe are logged and omitted.
func (p *Parser) parseAudio(ctx context.Context, f *os.File, format Format) ([]string, error) {
	if p.transcriber == nil {
		return nil, ErrNoTranscriber
	}

	var decoded pcm
	var err error
	if format == FormatMP3 {
		decoded, err = decodeMP3(f)
	} else {
		decoded, err = decodeWAV(f)
	}
	if err != nil {
		return nil, err
	}

	var spans []frameRange
	if p.opts.AudioWindow > 0 {
		spans = splitByWindow(decoded, p.opts.AudioWindow)
	} else {
		spans = splitOnSilence(decoded, p.opts.MinSilence, p.opts.SilenceThresh, p.opts.KeepSilence)
	}
	p.logger.Debug("audio chunks", "file", f.Name(), "chunks", len(spans))

	tempDir, err := os.MkdirTemp("", "course-audio-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	var segments []string
	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunkPath := filepath.Join(tempDir, fmt.Sprintf("%d_chunk.wav", i))
		if err := writeChunk(chunkPath, decoded, span); err != nil {
			return nil, fmt.Errorf("failed to export chunk %d: %w", i, err)
		}

		text, err := p.transcriber.Transcribe(ctx, chunkPath)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("Could not transcribe audio chunk", "chunk", i+1, "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			segments = append(segments, text)
		}
	}
	return segments, nil
}
