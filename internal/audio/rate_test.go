package audio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frames 產生 n 個內容遞增、可辨識的 PCM frame
func frames(n, frameSize int) []byte {
	out := make([]byte, 0, n*frameSize)
	for i := 0; i < n; i++ {
		for j := 0; j < frameSize; j++ {
			out = append(out, byte(i))
		}
	}
	return out
}

func readAll(t *testing.T, r io.Reader, bufSize int) []byte {
	t.Helper()
	var out []byte
	p := make([]byte, bufSize)
	for {
		n, err := r.Read(p)
		out = append(out, p[:n]...)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
}

func TestRateReaderHalfSpeedDuplicatesFrames(t *testing.T) {
	const fs = 4
	src := frames(3, fs)
	rr := newRateReader(bytes.NewReader(src), fs, 0.5)

	got := readAll(t, rr, 64)

	// 0.5 倍速：每個 frame 輸出兩次，順序不變
	want := []byte{
		0, 0, 0, 0, 0, 0, 0, 0,
		1, 1, 1, 1, 1, 1, 1, 1,
		2, 2, 2, 2, 2, 2, 2, 2,
	}
	assert.Equal(t, want, got)
}

func TestRateReaderSlowRateOutputCount(t *testing.T) {
	const fs = 4
	const inFrames = 300
	rr := newRateReader(bytes.NewReader(frames(inFrames, fs)), fs, 0.75)

	got := readAll(t, rr, 256)

	// 0.75 倍速：輸出約為輸入的 4/3 倍，容許累加器的尾差
	outFrames := len(got) / fs
	assert.InDelta(t, inFrames*4/3, outFrames, 2)
	assert.Zero(t, len(got)%fs, "輸出必須對齊 frame 邊界")
}

func TestRateReaderLeftoverBuffered(t *testing.T) {
	const fs = 4
	rr := newRateReader(bytes.NewReader(frames(2, fs)), fs, 0.5)

	// 輸出緩衝一次裝不下兩倍的展開結果
	p := make([]byte, 8)
	n, err := rr.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, p[:n])

	// 剩下的展開結果留在內部緩衝，下一次呼叫先倒出
	n, err = rr.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 1, 1, 1, 1, 1, 1}, p[:n])

	n, err = rr.Read(p)
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestRateReaderUnitRatePassthrough(t *testing.T) {
	const fs = 4
	src := frames(5, fs)
	rr := newRateReader(bytes.NewReader(src), fs, 1.0)

	assert.Equal(t, src, readAll(t, rr, 64))
}

func TestRateReaderInvalidRateFallsBack(t *testing.T) {
	const fs = 4
	src := frames(2, fs)
	rr := newRateReader(bytes.NewReader(src), fs, 0)

	assert.Equal(t, src, readAll(t, rr, 64))
}
