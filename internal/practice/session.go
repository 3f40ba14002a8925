package practice

import (
	"context"

	"github.com/samber/lo"

	"github.com/123hi123/musci2practice/internal/models"
)

// TraversalMode 播放清單耗盡後的續播策略
type TraversalMode string

const (
	ModeSingle          TraversalMode = "single"           // 單曲循環
	ModePlaylistShuffle TraversalMode = "playlist-shuffle" // 歌單隨機（整首輪播）
	ModeSuperShuffle    TraversalMode = "super-shuffle"    // 超級隨機（跨歌曲抽段落）
)

// Settings 練習設定
type Settings struct {
	RepeatCount   int  // TTS 重複次數（1 或 2）
	SlowMode      bool // 第二次 TTS 慢速
	ShowSecondary bool // 顯示次要語言字幕
	Loop          bool // 清單播完後循環
}

// DefaultSettings 預設練習設定
func DefaultSettings() Settings {
	return Settings{
		RepeatCount:   2,
		SlowMode:      false,
		ShowSecondary: true,
		Loop:          true,
	}
}

// SongData 一首歌進入練習所需的全部資料
type SongData struct {
	Song     models.Song
	Segments []models.Segment
	Lines    []models.LyricLine
	Language string // 後端回報的 TTS 語言
}

// Loader 從後端載入歌曲資料
type Loader interface {
	LoadSong(ctx context.Context, id string) (*SongData, error)
}

// Session 練習階段的聚合狀態。進入練習模式時建立，退出時整個重置。
// 只能由引擎自身的處理函數修改。
type Session struct {
	ID          string // 階段識別（日誌用）
	EntrySongID string // 進入練習前檢視的歌曲，退出時還原

	Song       *SongData
	ReadySongs []models.Song // 進入時的歌曲目錄快照

	Mode     TraversalMode
	Settings Settings

	Playlist     []models.PracticeItem
	Index        int
	ScopeSegment int // -1 為整首歌；超級隨機模式下為抽中的段落

	Queue *SongQueue // 僅歌單隨機模式使用

	AnchorLine int    // 字幕定位的歌詞行索引
	SourceLang string // 原文語言標籤
	TargetLang string // 翻譯語言標籤
}

// readyIDs 目錄快照中已就緒的歌曲 ID
func (s *Session) readyIDs() []string {
	ready := lo.Filter(s.ReadySongs, func(song models.Song, _ int) bool {
		return song.IsReady()
	})
	return lo.Map(ready, func(song models.Song, _ int) string {
		return song.ID
	})
}

// segmentByIndex 以段落索引找段落
func (s *Session) segmentByIndex(idx int) (models.Segment, bool) {
	if s.Song == nil {
		return models.Segment{}, false
	}
	return lo.Find(s.Song.Segments, func(seg models.Segment) bool {
		return seg.Index == idx
	})
}

// CurrentItem 目前的播放項目
func (s *Session) CurrentItem() (models.PracticeItem, bool) {
	if s == nil || s.Index < 0 || s.Index >= len(s.Playlist) {
		return models.PracticeItem{}, false
	}
	return s.Playlist[s.Index], true
}

// SegmentCount 目前歌曲的段落總數
func (s *Session) SegmentCount() int {
	if s.Song == nil {
		return 0
	}
	return len(s.Song.Segments)
}
