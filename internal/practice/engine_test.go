package practice

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123hi123/musci2practice/internal/models"
)

// ===== 測試替身 =====

type playEvent struct {
	ch   ChannelID
	ref  string
	rate float64
	gen  uint64
}

// fakeChannel 記錄播放請求的假通道
type fakeChannel struct {
	id     ChannelID
	log    *[]playEvent
	reject bool
	paused int
	warmed int
}

func (f *fakeChannel) Play(ref string, rate float64, gen uint64) error {
	if f.reject {
		return errors.New("denied by host")
	}
	*f.log = append(*f.log, playEvent{ch: f.id, ref: ref, rate: rate, gen: gen})
	return nil
}

func (f *fakeChannel) Pause()  { f.paused++ }
func (f *fakeChannel) Stop()   {}
func (f *fakeChannel) Warmup() { f.warmed++ }

type loadRequest struct {
	songID string
	gen    uint64
}

type harness struct {
	eng   *Engine
	orig  *fakeChannel
	tts   *fakeChannel
	log   []playEvent
	loads []loadRequest
}

func newHarness() *harness {
	h := &harness{}
	h.orig = &fakeChannel{id: ChannelOriginal, log: &h.log}
	h.tts = &fakeChannel{id: ChannelTTS, log: &h.log}
	h.eng = NewEngine(h.orig, h.tts)
	h.eng.RequestLoad = func(songID string, gen uint64) {
		h.loads = append(h.loads, loadRequest{songID: songID, gen: gen})
	}
	return h
}

// finish 以最後一次播放的通道與代號回報自然播放結束
func (h *harness) finish(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, h.log)
	last := h.log[len(h.log)-1]
	h.eng.OnItemFinished(last.ch, last.gen)
}

func (h *harness) lastPlay(t *testing.T) playEvent {
	t.Helper()
	require.NotEmpty(t, h.log)
	return h.log[len(h.log)-1]
}

func songData(id string, nSegs int) *SongData {
	segs := make([]models.Segment, nSegs)
	lines := make([]models.LyricLine, nSegs)
	for i := 0; i < nSegs; i++ {
		segs[i] = models.Segment{
			Index:        i,
			OriginalText: fmt.Sprintf("原文 %d", i),
			TTSText:      fmt.Sprintf("text %d", i),
			LineIndices:  []int{i},
		}
		lines[i] = models.LyricLine{
			Index:        i,
			Original:     fmt.Sprintf("歌詞 %d", i),
			Translations: models.Translations{Zh: fmt.Sprintf("翻譯 %d", i)},
		}
	}
	return &SongData{
		Song:     models.Song{ID: id, Filename: id + ".mp3", Status: models.StatusReady},
		Segments: segs,
		Lines:    lines,
		Language: "english",
	}
}

func catalog(ids ...string) []models.Song {
	songs := make([]models.Song, len(ids))
	for i, id := range ids {
		songs[i] = models.Song{ID: id, Status: models.StatusReady}
	}
	return songs
}

func enter(t *testing.T, h *harness, data *SongData, cat []models.Song, settings Settings) {
	t.Helper()
	require.NoError(t, h.eng.Enter(data, cat, settings))
	require.NoError(t, h.eng.Start())
}

// ===== 基本播放 =====

func TestStartPlaysFirstOriginal(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	ev := h.lastPlay(t)
	assert.Equal(t, ChannelOriginal, ev.ch)
	assert.Equal(t, models.SegmentAudioRef("X", 0), ev.ref)
	assert.Equal(t, Playing, h.eng.State())
	// 互斥：播放原曲前先暫停 TTS 通道
	assert.Equal(t, 1, h.tts.paused)
}

func TestSingleModeLoopWrapsAround(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	// 清單: [orig0, tts0, tts0r, orig1, tts1, tts1r]
	wantRefs := []string{
		models.SegmentAudioRef("X", 0),
		models.SegmentTTSRef("X", 0),
		models.SegmentTTSRef("X", 0),
		models.SegmentAudioRef("X", 1),
		models.SegmentTTSRef("X", 1),
		models.SegmentTTSRef("X", 1),
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, wantRefs[i], h.log[len(h.log)-1].ref, "item %d", i)
		h.finish(t)
	}
	assert.Equal(t, wantRefs[5], h.lastPlay(t).ref)

	// 最後一個項目播完後回到清單開頭重播
	h.finish(t)
	assert.Equal(t, 0, h.eng.Session().Index)
	assert.Equal(t, wantRefs[0], h.lastPlay(t).ref)
	assert.Equal(t, Playing, h.eng.State())
}

func TestSingleModeNoLoopStopsAtEnd(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 1), catalog("X"), Settings{RepeatCount: 1, Loop: false})

	h.finish(t) // orig0 -> tts0
	h.finish(t) // tts0 播完，不循環

	assert.Equal(t, Stopped, h.eng.State())
	assert.Equal(t, 1, h.eng.Session().Index, "停在最後一個項目")
}

// ===== 手動操作 =====

func TestNextJumpsToSegmentBoundary(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 3), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	// 在段落 0 的第一個項目按下一段，應跳到段落 1 的第一個項目
	require.NoError(t, h.eng.Next())
	assert.Equal(t, 3, h.eng.Session().Index)
	assert.Equal(t, models.SegmentAudioRef("X", 1), h.lastPlay(t).ref)
}

func TestPreviousFindsEarlierSegmentHead(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 3), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	// 走到段落 2 中間
	for i := 0; i < 7; i++ {
		h.finish(t)
	}
	require.Equal(t, 7, h.eng.Session().Index)

	require.NoError(t, h.eng.Previous())
	assert.Equal(t, 3, h.eng.Session().Index, "回到段落 1 的第一個項目")
}

func TestPreviousAtFirstItemStays(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	require.NoError(t, h.eng.Previous())
	assert.Equal(t, 0, h.eng.Session().Index)
}

func TestTogglePlayPausesAndResumes(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 1), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	require.NoError(t, h.eng.TogglePlay())
	assert.Equal(t, Paused, h.eng.State())

	plays := len(h.log)
	require.NoError(t, h.eng.TogglePlay())
	assert.Equal(t, Playing, h.eng.State())
	assert.Equal(t, plays+1, len(h.log), "恢復時重新對目前項目發出播放")
	assert.Equal(t, 0, h.eng.Session().Index)
}

// ===== 過期訊號 =====

func TestStaleFinishedSignalsIgnored(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	cur := h.lastPlay(t)

	// 錯的通道
	h.eng.OnItemFinished(ChannelTTS, cur.gen)
	assert.Equal(t, 0, h.eng.Session().Index)

	// 錯的代號
	h.eng.OnItemFinished(cur.ch, cur.gen+99)
	assert.Equal(t, 0, h.eng.Session().Index)
}

func TestFinishedAfterPauseIgnored(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	cur := h.lastPlay(t)
	require.NoError(t, h.eng.TogglePlay()) // 暫停

	// 暫停前殘留的結束訊號不得推進
	h.eng.OnItemFinished(cur.ch, cur.gen)
	assert.Equal(t, 0, h.eng.Session().Index)
	assert.Equal(t, Paused, h.eng.State())
}

// ===== 播放被拒絕 =====

func TestPlaybackRejectedKeepsPosition(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.eng.Enter(songData("X", 2), catalog("X"), Settings{RepeatCount: 2, Loop: true}))

	h.orig.reject = true
	err := h.eng.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlaybackRejected))
	assert.Equal(t, Stopped, h.eng.State(), "被拒絕時不得標示為播放中")
	assert.Equal(t, 0, h.eng.Session().Index, "位置保留供重試")

	// 手動重試從同一個項目繼續
	h.orig.reject = false
	require.NoError(t, h.eng.TogglePlay())
	assert.Equal(t, Playing, h.eng.State())
	assert.Equal(t, models.SegmentAudioRef("X", 0), h.lastPlay(t).ref)
}

// ===== 歌單隨機模式 =====

func TestPlaylistShuffleTraversal(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 1), catalog("X", "Y", "Z"), Settings{RepeatCount: 1, Loop: false})
	require.NoError(t, h.eng.SetMode(ModePlaylistShuffle))

	s := h.eng.Session()
	require.NotNil(t, s.Queue)
	assert.Equal(t, "X", s.Queue.Current(), "種子歌曲排第一")

	// 播完 X 的兩個項目
	h.finish(t)
	h.finish(t)

	// 邊界：請求載入佇列第二首
	require.Len(t, h.loads, 1)
	second := h.loads[0].songID
	assert.Contains(t, []string{"Y", "Z"}, second)

	// 自然播完觸發的切換，載入後自動開始播放
	h.eng.OnSongLoaded(h.loads[0].gen, songData(second, 1), nil)
	assert.Equal(t, Playing, h.eng.State())
	assert.Equal(t, models.SegmentAudioRef(second, 0), h.lastPlay(t).ref)
	assert.Equal(t, 0, h.eng.Session().Index)

	// 播完第二首、載入第三首
	h.finish(t)
	h.finish(t)
	require.Len(t, h.loads, 2)
	third := h.loads[1].songID
	h.eng.OnSongLoaded(h.loads[1].gen, songData(third, 1), nil)
	assert.Equal(t, Playing, h.eng.State())

	// 佇列尾端、不循環：停在最後一首的最後一個項目
	h.finish(t)
	h.finish(t)
	assert.Equal(t, Stopped, h.eng.State())
	assert.Equal(t, 1, h.eng.Session().Index)
	assert.Len(t, h.loads, 2, "不得再請求載入")
}

func TestPlaylistShuffleLoopReshuffles(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 1), catalog("X", "Y"), Settings{RepeatCount: 1, Loop: true})
	require.NoError(t, h.eng.SetMode(ModePlaylistShuffle))

	// 播完 X，切到 Y
	h.finish(t)
	h.finish(t)
	require.Len(t, h.loads, 1)
	require.Equal(t, "Y", h.loads[0].songID)
	h.eng.OnSongLoaded(h.loads[0].gen, songData("Y", 1), nil)

	// 播完 Y：佇列重洗，新隊首不得是 Y
	h.finish(t)
	h.finish(t)
	require.Len(t, h.loads, 2)
	assert.Equal(t, "X", h.loads[1].songID)
}

func TestSupersededLoadDiscarded(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 1), catalog("X", "Y", "Z"), Settings{RepeatCount: 1, Loop: false})
	require.NoError(t, h.eng.SetMode(ModePlaylistShuffle))

	// 自然播完觸發第一次切換
	h.finish(t)
	h.finish(t)
	require.Len(t, h.loads, 1)
	first := h.loads[0]

	// 載入未完成時手動再切一次歌：新請求取代舊請求
	require.NoError(t, h.eng.Next())
	require.Len(t, h.loads, 2)
	second := h.loads[1]
	require.NotEqual(t, first.gen, second.gen)

	// 舊結果送達：必須被捨棄
	h.eng.OnSongLoaded(first.gen, songData(first.songID, 1), nil)
	assert.Equal(t, "X", h.eng.Session().Song.Song.ID, "過期結果不得生效")

	// 新結果生效
	h.eng.OnSongLoaded(second.gen, songData(second.songID, 1), nil)
	assert.Equal(t, second.songID, h.eng.Session().Song.Song.ID)
}

func TestSongLoadFailureKeepsSession(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 1), catalog("X", "Y"), Settings{RepeatCount: 1, Loop: false})
	require.NoError(t, h.eng.SetMode(ModePlaylistShuffle))

	h.finish(t)
	h.finish(t)
	require.Len(t, h.loads, 1)

	h.eng.OnSongLoaded(h.loads[0].gen, nil, ErrDataUnavailable)
	assert.Equal(t, Stopped, h.eng.State())
	assert.Equal(t, "X", h.eng.Session().Song.Song.ID, "載入失敗時停留在原本的歌")
}

func TestSetModeWithoutReadySongs(t *testing.T) {
	h := newHarness()
	cat := []models.Song{{ID: "X", Status: models.StatusProcessing}}
	enter(t, h, songData("X", 1), cat, Settings{RepeatCount: 1, Loop: true})

	err := h.eng.SetMode(ModePlaylistShuffle)
	assert.True(t, errors.Is(err, ErrNoPlayableContent))
	assert.Equal(t, ModeSingle, h.eng.Session().Mode, "回復單曲模式")
}

// ===== 超級隨機模式 =====

func TestSuperShufflePicksDifferentSong(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X", "Y", "Z"), Settings{RepeatCount: 1, Loop: true})
	require.NoError(t, h.eng.SetMode(ModeSuperShuffle))

	// 播完整份清單（2 段 × 2 項）
	for i := 0; i < 4; i++ {
		h.finish(t)
	}

	// 至少有兩首可選時必須換歌
	require.Len(t, h.loads, 1)
	picked := h.loads[0].songID
	assert.NotEqual(t, "X", picked)

	h.eng.OnSongLoaded(h.loads[0].gen, songData(picked, 3), nil)
	s := h.eng.Session()
	assert.GreaterOrEqual(t, s.ScopeSegment, 0, "抽中的段落範圍")
	assert.Len(t, s.Playlist, 2, "單段落清單（repeat=1 為 2 個項目）")
	assert.Equal(t, Playing, h.eng.State())

	// 連續兩次自然切換不得抽到同一首
	for i := 0; i < 2; i++ {
		h.finish(t)
	}
	require.Len(t, h.loads, 2)
	assert.NotEqual(t, picked, h.loads[1].songID)
}

func TestSuperShuffleSingleSongStaysLocal(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 3), catalog("X"), Settings{RepeatCount: 1, Loop: true})
	require.NoError(t, h.eng.SetMode(ModeSuperShuffle))

	for i := 0; i < 6; i++ {
		h.finish(t)
	}

	// 只有一首歌：不需要載入，直接抽段落
	assert.Empty(t, h.loads)
	s := h.eng.Session()
	assert.GreaterOrEqual(t, s.ScopeSegment, 0)
	assert.Len(t, s.Playlist, 2)
	assert.Equal(t, Playing, h.eng.State())
}

// ===== 重新翻譯 =====

func TestApplyRetranslationPatchesMatchingItems(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 5), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	s := h.eng.Session()
	before := make([]models.PracticeItem, len(s.Playlist))
	copy(before, s.Playlist)
	idxBefore := s.Index
	stateBefore := h.eng.State()

	h.eng.ApplyRetranslation(2, "brand new translation")

	patched := 0
	for i, it := range s.Playlist {
		if it.SegmentIndex == 2 {
			assert.Equal(t, "brand new translation", it.TargetCaption)
			patched++
			continue
		}
		assert.Equal(t, before[i], it, "其他項目不得改動")
	}
	assert.Equal(t, 3, patched)

	// 段落表也要更新
	seg, ok := s.segmentByIndex(2)
	require.True(t, ok)
	assert.Equal(t, "brand new translation", seg.TTSText)

	// 播放位置與狀態不受影響
	assert.Equal(t, idxBefore, s.Index)
	assert.Equal(t, stateBefore, h.eng.State())
}

func TestApplyRetranslationEmptyTextIgnored(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X"), Settings{RepeatCount: 1, Loop: true})

	s := h.eng.Session()
	orig := s.Playlist[0].TargetCaption
	h.eng.ApplyRetranslation(0, "")
	assert.Equal(t, orig, s.Playlist[0].TargetCaption)
}

// ===== 進入／退出 =====

func TestEnterRejectsEmptySong(t *testing.T) {
	h := newHarness()
	err := h.eng.Enter(&SongData{Song: models.Song{ID: "X"}}, catalog("X"), Settings{})
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestExitStopsAndRestoresView(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 2), catalog("X", "Y"), Settings{RepeatCount: 1, Loop: true})

	restore := h.eng.Exit()
	assert.Equal(t, "X", restore)
	assert.Nil(t, h.eng.Session())
	assert.Equal(t, Stopped, h.eng.State())

	// 重複退出是冪等的
	assert.Equal(t, "", h.eng.Exit())
}

func TestExitDiscardsInFlightLoad(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 1), catalog("X", "Y"), Settings{RepeatCount: 1, Loop: true})
	require.NoError(t, h.eng.SetMode(ModePlaylistShuffle))

	h.finish(t)
	h.finish(t)
	require.Len(t, h.loads, 1)
	pending := h.loads[0]

	h.eng.Exit()

	// 退出後送達的載入結果不得產生任何效果
	h.eng.OnSongLoaded(pending.gen, songData(pending.songID, 1), nil)
	assert.Nil(t, h.eng.Session())
	assert.Equal(t, Stopped, h.eng.State())
}

func TestUnlockWarmsBothChannels(t *testing.T) {
	h := newHarness()
	h.eng.Unlock()
	assert.Equal(t, 1, h.orig.warmed)
	assert.Equal(t, 1, h.tts.warmed)
}

// ===== 設定變更 =====

func TestSetRepeatRebuildsAtCurrentSegment(t *testing.T) {
	h := newHarness()
	enter(t, h, songData("X", 3), catalog("X"), Settings{RepeatCount: 2, Loop: true})

	// 走到段落 1
	for i := 0; i < 3; i++ {
		h.finish(t)
	}
	require.Equal(t, 1, h.eng.Session().Playlist[h.eng.Session().Index].SegmentIndex)

	require.NoError(t, h.eng.SetRepeat(1, false))
	s := h.eng.Session()
	assert.Len(t, s.Playlist, 6, "repeat=1 時 3 段 × 2 項")
	assert.Equal(t, 1, s.Playlist[s.Index].SegmentIndex, "位置保持在原本的段落")
	assert.Equal(t, Playing, h.eng.State())
}
