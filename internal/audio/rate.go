package audio

import "io"

// rateReader 夾在解碼器和 Oto 之間，用複製或丟棄 PCM frame 的方式
// 改變播放速度：0.75 倍速時大約每三個 frame 多複製一個。
type rateReader struct {
	source    io.Reader
	frameSize int     // channels * 2（16-bit 取樣）
	step      float64 // 每個輸入 frame 應輸出的 frame 數（1/rate）
	acc       float64
	buf       []byte // 前一次呼叫沒寫完的輸出
	tmp       []byte // 重複使用的讀取緩衝（只增不減）
}

func newRateReader(source io.Reader, frameSize int, rate float64) *rateReader {
	if rate <= 0 {
		rate = 1.0
	}
	return &rateReader{
		source:    source,
		frameSize: frameSize,
		step:      1.0 / rate,
	}
}

func (rr *rateReader) Read(p []byte) (int, error) {
	fs := rr.frameSize

	// 先倒出上次剩下的輸出
	if len(rr.buf) > 0 {
		n := copy(p, rr.buf)
		rr.buf = rr.buf[n:]
		return n, nil
	}

	outFrames := len(p) / fs
	if outFrames == 0 {
		return rr.source.Read(p)
	}

	srcSize := outFrames * fs
	if cap(rr.tmp) < srcSize {
		rr.tmp = make([]byte, srcSize)
	}
	tmp := rr.tmp[:srcSize]
	n, err := io.ReadFull(rr.source, tmp)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	srcFramesRead := n / fs
	var expanded []byte
	for i := 0; i < srcFramesRead; i++ {
		rr.acc += rr.step
		repeat := int(rr.acc)
		rr.acc -= float64(repeat)
		frame := tmp[i*fs : (i+1)*fs]
		for j := 0; j < repeat; j++ {
			expanded = append(expanded, frame...)
		}
	}

	wrote := copy(p, expanded)
	if wrote < len(expanded) {
		rr.buf = append(rr.buf[:0], expanded[wrote:]...)
	}

	if wrote > 0 {
		return wrote, nil
	}
	return 0, err
}
