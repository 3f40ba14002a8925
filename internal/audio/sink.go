package audio

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"

	"github.com/123hi123/musci2practice/internal/logger"
	"github.com/123hi123/musci2practice/internal/practice"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	frameSize    = channelCount * bitDepth
)

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// eofReader 記錄來源是否已讀到結尾
type eofReader struct {
	r   io.Reader
	mu  sync.Mutex
	eof bool
}

func (er *eofReader) Read(p []byte) (int, error) {
	n, err := er.r.Read(p)
	if err == io.EOF {
		er.mu.Lock()
		er.eof = true
		er.mu.Unlock()
	}
	return n, err
}

func (er *eofReader) EOF() bool {
	er.mu.Lock()
	defer er.mu.Unlock()
	return er.eof
}

// FinishedFunc 自然播放結束的回報；必須把訊號送回引擎的事件迴圈
// 後再呼叫 Engine.OnItemFinished。
type FinishedFunc func(ch practice.ChannelID, gen uint64)

// Sink 一個媒體播放通道：抓取後端的 MP3 片段、解碼後交給 Oto 播放。
// 實作 practice.Channel。
type Sink struct {
	id         practice.ChannelID
	baseURL    string
	httpc      *http.Client
	onFinished FinishedFunc

	mu          sync.Mutex
	player      *oto.Player
	src         *eofReader
	gen         uint64
	interrupted bool // 引擎主動暫停/停止，殘留訊號不得回報
	volume      float64
}

// NewSink 建立播放通道。baseURL 是後端位址，onFinished 在片段自然
// 播完時被呼叫（從監看 goroutine 發出）。
func NewSink(id practice.ChannelID, baseURL string, onFinished FinishedFunc) *Sink {
	return &Sink{
		id:         id,
		baseURL:    baseURL,
		httpc:      &http.Client{Timeout: 30 * time.Second},
		onFinished: onFinished,
		volume:     0.8,
	}
}

// Play 抓取並播放一個音訊片段。回傳錯誤代表播放請求被拒絕
// （抓取失敗、解碼失敗或音訊裝置不可用）。
func (s *Sink) Play(ref string, rate float64, gen uint64) error {
	data, err := s.fetch(ref)
	if err != nil {
		return err
	}

	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("解碼失敗: %w", err)
	}

	ctx, err := initOto()
	if err != nil {
		return fmt.Errorf("音訊裝置不可用: %w", err)
	}

	var reader io.Reader = dec
	if rate != 1.0 {
		reader = newRateReader(dec, frameSize, rate)
	}
	src := &eofReader{r: reader}

	s.mu.Lock()
	if s.player != nil {
		s.player.Pause()
		s.player.Close()
	}
	s.gen = gen
	s.interrupted = false
	s.src = src
	s.player = ctx.NewPlayer(src)
	s.player.SetVolume(s.volume)
	s.player.Play()
	s.mu.Unlock()

	go s.monitor(gen)
	return nil
}

// monitor 輪詢到片段播完為止；引擎中途暫停或開始新的播放時
// 靜默退出，不回報結束
func (s *Sink) monitor(gen uint64) {
	for {
		time.Sleep(100 * time.Millisecond)

		s.mu.Lock()
		if s.gen != gen || s.interrupted || s.player == nil {
			s.mu.Unlock()
			return
		}
		done := s.src.EOF() && !s.player.IsPlaying()
		s.mu.Unlock()

		if done {
			logger.Debug("片段播放完畢 ch=%s gen=%d", s.id, gen)
			if s.onFinished != nil {
				s.onFinished(s.id, gen)
			}
			return
		}
	}
}

// Pause 暫停目前播放；之後這次播放的結束訊號不再有效
func (s *Sink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupted = true
	if s.player != nil {
		s.player.Pause()
	}
}

// Stop 停止並釋放目前的播放
func (s *Sink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupted = true
	if s.player != nil {
		s.player.Pause()
		s.player.Close()
		s.player = nil
	}
}

// Warmup 播放解鎖：靜音播放一小段無聲資料再立即暫停，喚醒音訊
// 裝置。在使用者手勢的同步堆疊內呼叫，失敗不回報。
func (s *Sink) Warmup() {
	ctx, err := initOto()
	if err != nil {
		logger.Debug("Warmup 失敗 ch=%s: %v", s.id, err)
		return
	}
	silence := make([]byte, frameSize*sampleRate/50) // 約 20ms
	p := ctx.NewPlayer(bytes.NewReader(silence))
	p.SetVolume(0)
	p.Play()
	p.Pause()
	p.Close()
}

// SetVolume 設定音量（0.0 - 1.0）
func (s *Sink) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
	if s.player != nil {
		s.player.SetVolume(v)
	}
}

// fetch 抓取片段內容
func (s *Sink) fetch(ref string) ([]byte, error) {
	resp, err := s.httpc.Get(s.baseURL + ref)
	if err != nil {
		return nil, fmt.Errorf("無法取得音訊: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("無法取得音訊: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
