package practice

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/123hi123/musci2practice/internal/langtag"
	"github.com/123hi123/musci2practice/internal/logger"
	"github.com/123hi123/musci2practice/internal/models"
)

// PlayerState 播放器狀態
type PlayerState int

const (
	Stopped PlayerState = iota // 停止
	Playing                    // 播放中
	Paused                     // 暫停
)

// String 狀態名稱
func (s PlayerState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Engine 練習播放引擎。管理播放器狀態與清單推進兩個狀態機，
// 對兩個媒體通道的「播放結束」訊號做出反應。
//
// 所有方法都必須從同一個 goroutine 呼叫（事件迴圈把全部進入點
// 序列化），通道結束與載入完成要以訊息形式送回這個迴圈後再呼叫
// OnItemFinished / OnSongLoaded。
type Engine struct {
	original Channel
	tts      Channel

	session *Session
	state   PlayerState

	// 播放代號：每次對通道發出播放就遞增一次，
	// 過期代號的結束訊號一律忽略
	playGen  uint64
	activeCh ChannelID

	// 歌曲切換載入：新請求取代舊請求，過期結果捨棄
	loadGen       uint64
	loadPending   bool
	pendingPlay   bool // 載入完成後是否自動開始播放
	pendingSongID string

	// RequestLoad 非同步載入掛鉤。引擎需要切換歌曲時呼叫；
	// 呼叫端完成載入後必須把結果連同 gen 送回 OnSongLoaded。
	RequestLoad func(songID string, gen uint64)

	// OnChange 狀態變更通知（畫面重繪用），可為 nil
	OnChange func()

	// OnNotice 使用者可見的提示（錯誤、無內容可播等），可為 nil
	OnNotice func(msg string)
}

// NewEngine 建立練習播放引擎
func NewEngine(original, tts Channel) *Engine {
	return &Engine{
		original: original,
		tts:      tts,
	}
}

// State 目前播放器狀態
func (e *Engine) State() PlayerState {
	return e.state
}

// Session 目前練習階段，未進入練習時為 nil
func (e *Engine) Session() *Session {
	return e.session
}

// ===== 進入／退出 =====

// Enter 以載入好的歌曲資料開始練習階段。呼叫前必須先在使用者
// 手勢的同步堆疊內執行 Unlock（見 unlock.go）。
func (e *Engine) Enter(data *SongData, catalog []models.Song, settings Settings) error {
	if data == nil || len(data.Segments) == 0 {
		return fmt.Errorf("歌曲 %q: %w", dataSongID(data), ErrDataUnavailable)
	}

	originals := lo.Map(data.Lines, func(l models.LyricLine, _ int) string {
		return l.Original
	})

	e.session = &Session{
		ID:           uuid.NewString(),
		EntrySongID:  data.Song.ID,
		Song:         data,
		ReadySongs:   catalog,
		Mode:         ModeSingle,
		Settings:     settings,
		ScopeSegment: -1,
		AnchorLine:   -1,
		SourceLang:   langtag.DetectLines(originals),
		TargetLang:   langtag.Normalize(data.Language),
	}
	e.state = Stopped

	logger.Info("進入練習模式 session=%s song=%s segments=%d", e.session.ID, data.Song.ID, len(data.Segments))
	e.notify()
	return nil
}

// Start 建立播放清單並播放第一個項目。空清單視為沒有內容可播放，
// 不是錯誤。
func (e *Engine) Start() error {
	if e.session == nil {
		return nil
	}
	e.rebuildPlaylist()
	e.session.Index = 0

	if len(e.session.Playlist) == 0 {
		logger.Warn("播放清單為空 song=%s", e.session.Song.Song.ID)
		e.state = Stopped
		e.notify()
		return nil
	}
	return e.playCurrent()
}

// Exit 退出練習模式：立即停止兩個通道、捨棄進行中的載入，
// 並回傳進入前檢視的歌曲 ID 供畫面還原。可重複呼叫。
func (e *Engine) Exit() (restoreSongID string) {
	e.original.Stop()
	e.tts.Stop()
	e.playGen++
	e.loadGen++
	e.loadPending = false
	e.state = Stopped

	if e.session != nil {
		restoreSongID = e.session.EntrySongID
		logger.Info("退出練習模式 session=%s", e.session.ID)
		e.session = nil
	}
	e.notify()
	return restoreSongID
}

// ===== 播放控制 =====

// TogglePlay 播放中就暫停，否則對目前項目（重新）發出播放
func (e *Engine) TogglePlay() error {
	if e.session == nil {
		return nil
	}
	if e.state == Playing {
		e.pauseChannels()
		e.state = Paused
		e.notify()
		return nil
	}
	return e.playCurrent()
}

// Stop 停止播放並把清單位置重置到開頭
func (e *Engine) Stop() {
	if e.session == nil {
		return
	}
	e.pauseChannels()
	e.state = Stopped
	e.session.Index = 0
	e.notify()
}

// Next 跳到下一個段落邊界的第一個項目；已在清單尾端時，
// 交給與自然播放結束相同的分支邏輯處理
func (e *Engine) Next() error {
	s := e.session
	if s == nil || len(s.Playlist) == 0 {
		return nil
	}

	cur := s.Playlist[s.Index].SegmentIndex
	for i := s.Index + 1; i < len(s.Playlist); i++ {
		if s.Playlist[i].SegmentIndex != cur {
			s.Index = i
			return e.playCurrent()
		}
	}

	// 清單尾端：沿用邊界分支，是否續播取決於目前是否在播放
	return e.atBoundary(e.state == Playing)
}

// Previous 往回找上一個段落的第一個項目；已經沒有更早的段落時
// 停在第一個項目
func (e *Engine) Previous() error {
	s := e.session
	if s == nil || len(s.Playlist) == 0 {
		return nil
	}

	cur := s.Playlist[s.Index].SegmentIndex
	target := 0
	for i := s.Index - 1; i >= 0; i-- {
		if s.Playlist[i].SegmentIndex < cur {
			target = i
			// 再回到該段落的第一個項目
			for target > 0 && s.Playlist[target-1].SegmentIndex == s.Playlist[target].SegmentIndex {
				target--
			}
			break
		}
	}

	s.Index = target
	return e.playCurrent()
}

// ===== 設定 =====

// SetMode 切換續播模式。歌單隨機模式需要至少一首已就緒的歌曲，
// 否則回復單曲模式並回傳 ErrNoPlayableContent。
func (e *Engine) SetMode(mode TraversalMode) error {
	s := e.session
	if s == nil || s.Mode == mode {
		return nil
	}

	switch mode {
	case ModePlaylistShuffle:
		q := NewSongQueue(s.readyIDs(), s.Song.Song.ID)
		if q.Len() == 0 {
			s.Mode = ModeSingle
			s.Queue = nil
			e.notice("沒有已就緒的歌曲，回復單曲模式")
			return ErrNoPlayableContent
		}
		s.Queue = q
	case ModeSuperShuffle:
		if len(s.readyIDs()) == 0 {
			s.Mode = ModeSingle
			s.Queue = nil
			e.notice("沒有已就緒的歌曲，回復單曲模式")
			return ErrNoPlayableContent
		}
		s.Queue = nil
	default:
		s.Queue = nil
	}

	s.Mode = mode
	logger.Info("切換續播模式 session=%s mode=%s", s.ID, mode)

	// 離開超級隨機的單段落範圍時，回到整首歌的清單
	if mode != ModeSuperShuffle && s.ScopeSegment >= 0 {
		s.ScopeSegment = -1
		e.rebuildAtCurrentSegment()
	}
	e.notify()
	return nil
}

// SetLoop 設定循環旗標
func (e *Engine) SetLoop(loop bool) {
	if e.session == nil {
		return
	}
	e.session.Settings.Loop = loop
	e.notify()
}

// SetShowSecondary 設定次要語言字幕顯示
func (e *Engine) SetShowSecondary(show bool) {
	if e.session == nil {
		return
	}
	e.session.Settings.ShowSecondary = show
	e.notify()
}

// SetRepeat 設定 TTS 重複次數與慢速旗標並重建清單，
// 播放位置保持在目前段落的開頭
func (e *Engine) SetRepeat(count int, slow bool) error {
	s := e.session
	if s == nil {
		return nil
	}
	s.Settings.RepeatCount = count
	s.Settings.SlowMode = slow

	wasPlaying := e.state == Playing
	e.rebuildAtCurrentSegment()
	e.notify()
	if wasPlaying {
		return e.playCurrent()
	}
	return nil
}

// ===== 事件進入點 =====

// OnItemFinished 通道回報目前項目自然播放結束。只有現役通道、
// 現役播放代號的訊號才會推進清單；引擎自行暫停通道所殘留的
// 過期訊號一律忽略。
func (e *Engine) OnItemFinished(ch ChannelID, gen uint64) {
	if e.session == nil || e.state != Playing {
		return
	}
	if ch != e.activeCh || gen != e.playGen {
		logger.Debug("忽略過期的結束訊號 ch=%s gen=%d", ch, gen)
		return
	}

	s := e.session
	if s.Index+1 < len(s.Playlist) {
		s.Index++
		if err := e.playCurrent(); err != nil {
			logger.Warn("自動續播失敗: %v", err)
		}
		return
	}
	if err := e.atBoundary(true); err != nil {
		logger.Warn("清單邊界推進失敗: %v", err)
	}
}

// OnSongLoaded 歌曲切換的載入結果。gen 與最後一次請求不符的結果
// 是被取代的舊請求，直接捨棄。
func (e *Engine) OnSongLoaded(gen uint64, data *SongData, err error) {
	if e.session == nil || !e.loadPending || gen != e.loadGen {
		logger.Debug("捨棄過期的載入結果 gen=%d", gen)
		return
	}
	e.loadPending = false
	s := e.session

	if err != nil || data == nil || len(data.Segments) == 0 {
		logger.Warn("歌曲載入失敗 song=%s: %v", e.pendingSongID, err)
		e.state = Stopped
		e.notice("無法載入下一首歌曲")
		e.notify()
		return
	}

	s.Song = data
	originals := lo.Map(data.Lines, func(l models.LyricLine, _ int) string {
		return l.Original
	})
	s.SourceLang = langtag.DetectLines(originals)
	s.TargetLang = langtag.Normalize(data.Language)

	if s.Mode == ModeSuperShuffle {
		// 抽一個段落，展開單段落清單
		seg := data.Segments[rand.Intn(len(data.Segments))]
		s.ScopeSegment = seg.Index
		if first := seg.FirstLineIndex(); first >= 0 {
			s.AnchorLine = first
		}
	} else {
		s.ScopeSegment = -1
	}

	e.rebuildPlaylist()
	s.Index = 0
	logger.Info("切換歌曲完成 session=%s song=%s items=%d", s.ID, data.Song.ID, len(s.Playlist))

	if e.pendingPlay && len(s.Playlist) > 0 {
		if err := e.playCurrent(); err != nil {
			logger.Warn("切換後播放失敗: %v", err)
		}
		return
	}
	e.state = Stopped
	e.notify()
}

// ===== 內部 =====

// atBoundary 清單尾端的分支邏輯。autoplay 表示切換完成後是否
// 自動開始播放（自然播放結束為真；暫停中手動切歌為假）。
func (e *Engine) atBoundary(autoplay bool) error {
	s := e.session
	switch s.Mode {
	case ModePlaylistShuffle:
		return e.advanceQueue(autoplay)
	case ModeSuperShuffle:
		return e.pickSuperShuffle(autoplay)
	default:
		if s.Settings.Loop {
			s.Index = 0
			return e.playCurrent()
		}
		// 不循環：停在最後一個項目
		e.pauseChannels()
		e.state = Stopped
		e.notify()
		return nil
	}
}

// advanceQueue 歌單隨機模式：游標前進；越過尾端時依循環旗標
// 重新洗牌或停止
func (e *Engine) advanceQueue(autoplay bool) error {
	s := e.session
	if s.Queue == nil || s.Queue.Len() == 0 {
		e.state = Stopped
		e.notify()
		return ErrNoPlayableContent
	}

	if s.Queue.Advance() {
		e.switchSong(s.Queue.Current(), autoplay)
		return nil
	}
	if s.Settings.Loop {
		s.Queue.ReshuffleAvoidingRepeat(s.Song.Song.ID)
		e.switchSong(s.Queue.Current(), autoplay)
		return nil
	}
	// 不循環：停在最後一首歌的最後一個項目
	e.pauseChannels()
	e.state = Stopped
	e.notify()
	return nil
}

// pickSuperShuffle 超級隨機模式：均勻抽一首就緒歌曲（有其他選擇時
// 排除剛播完的那首），再抽其中一個段落
func (e *Engine) pickSuperShuffle(autoplay bool) error {
	s := e.session
	ready := s.readyIDs()
	if len(ready) == 0 {
		e.state = Stopped
		e.notify()
		return ErrNoPlayableContent
	}

	candidates := ready
	if len(ready) >= 2 {
		candidates = lo.Filter(ready, func(id string, _ int) bool {
			return id != s.Song.Song.ID
		})
	}
	pick := candidates[rand.Intn(len(candidates))]

	if pick == s.Song.Song.ID {
		// 只剩目前這首：不需要重新載入，直接抽段落
		seg := s.Song.Segments[rand.Intn(len(s.Song.Segments))]
		s.ScopeSegment = seg.Index
		if first := seg.FirstLineIndex(); first >= 0 {
			s.AnchorLine = first
		}
		e.rebuildPlaylist()
		s.Index = 0
		if autoplay {
			return e.playCurrent()
		}
		e.state = Stopped
		e.notify()
		return nil
	}

	e.switchSong(pick, autoplay)
	return nil
}

// switchSong 發出非同步歌曲載入請求。新請求取代尚未完成的舊請求。
func (e *Engine) switchSong(songID string, autoplay bool) {
	e.loadGen++
	e.loadPending = true
	e.pendingPlay = autoplay
	e.pendingSongID = songID
	logger.Info("請求切換歌曲 session=%s song=%s gen=%d", e.session.ID, songID, e.loadGen)
	if e.RequestLoad != nil {
		e.RequestLoad(songID, e.loadGen)
	}
}

// playCurrent 播放目前項目：依種類挑選通道、暫停另一個通道、
// 設定倍速後發出播放。被拒絕時狀態保持非播放，位置不變，
// 讓使用者可以原地重試。
func (e *Engine) playCurrent() error {
	it, ok := e.session.CurrentItem()
	if !ok {
		e.state = Stopped
		e.notify()
		return nil
	}
	e.syncAnchor(it)

	ch, id := e.tts, ChannelTTS
	other := e.original
	if it.Kind == models.KindOriginal {
		ch, id = e.original, ChannelOriginal
		other = e.tts
	}
	other.Pause()

	e.playGen++
	e.activeCh = id
	if err := ch.Play(it.AudioRef, it.PlaybackRate, e.playGen); err != nil {
		if e.state == Playing {
			e.state = Stopped
		}
		logger.Warn("播放被拒絕 ch=%s item=%d: %v", id, e.session.Index, err)
		e.notify()
		return fmt.Errorf("%w: %v", ErrPlaybackRejected, err)
	}

	e.state = Playing
	e.notify()
	return nil
}

// pauseChannels 暫停兩個通道並讓殘留的結束訊號失效
func (e *Engine) pauseChannels() {
	e.original.Pause()
	e.tts.Pause()
	e.playGen++
}

// rebuildPlaylist 依目前設定與範圍重建播放清單
func (e *Engine) rebuildPlaylist() {
	s := e.session
	s.Playlist = Expand(s.Song.Song.ID, s.Song.Segments, s.Song.Lines, ExpandOptions{
		RepeatCount:  s.Settings.RepeatCount,
		SlowMode:     s.Settings.SlowMode,
		ScopeSegment: s.ScopeSegment,
	})
}

// rebuildAtCurrentSegment 重建清單並把位置移到原本所在段落的開頭
func (e *Engine) rebuildAtCurrentSegment() {
	s := e.session
	curSeg := -1
	if it, ok := s.CurrentItem(); ok {
		curSeg = it.SegmentIndex
	}
	e.rebuildPlaylist()
	s.Index = 0
	for i, it := range s.Playlist {
		if it.SegmentIndex == curSeg {
			s.Index = i
			break
		}
	}
}

func (e *Engine) notify() {
	if e.OnChange != nil {
		e.OnChange()
	}
}

func (e *Engine) notice(msg string) {
	logger.Warn("%s", msg)
	if e.OnNotice != nil {
		e.OnNotice(msg)
	}
}

func dataSongID(data *SongData) string {
	if data == nil {
		return ""
	}
	return data.Song.ID
}
