package practice

import (
	"strings"

	"github.com/samber/lo"

	"github.com/123hi123/musci2practice/internal/models"
)

// SlowRate 慢速模式下第二次 TTS 的播放倍速
const SlowRate = 0.75

// ExpandOptions 播放清單展開選項
type ExpandOptions struct {
	RepeatCount  int  // TTS 重複次數（1 或 2）
	SlowMode     bool // 第二次 TTS 是否慢速
	ScopeSegment int  // 只展開單一段落的索引，-1 表示整首歌
}

// Expand 將歌曲的段落列表展開為練習播放清單。
// 每個段落依序產生：原曲項目、TTS 項目（原速），以及在
// RepeatCount 為 2 時的重複 TTS 項目（慢速模式下為 0.75 倍速）。
// 查無對應段落時靜默跳過；空段落列表回傳空清單，由呼叫端視為
// 「沒有內容可播放」而非錯誤。
func Expand(songID string, segments []models.Segment, lines []models.LyricLine, opts ExpandOptions) []models.PracticeItem {
	repeat := opts.RepeatCount
	if repeat < 1 {
		repeat = 1
	}
	if repeat > 2 {
		repeat = 2
	}

	scope := segments
	if opts.ScopeSegment >= 0 {
		seg, ok := lo.Find(segments, func(s models.Segment) bool {
			return s.Index == opts.ScopeSegment
		})
		if !ok {
			return nil
		}
		scope = []models.Segment{seg}
	}

	var playlist []models.PracticeItem
	for _, seg := range scope {
		secondary := secondaryCaption(seg, lines)

		// 1. 原曲段落
		playlist = append(playlist, models.PracticeItem{
			Kind:             models.KindOriginal,
			SongID:           songID,
			SegmentIndex:     seg.Index,
			AudioRef:         models.SegmentAudioRef(songID, seg.Index),
			PlaybackRate:     1.0,
			Label:            "🎵 原曲",
			SourceCaption:    seg.OriginalText,
			TargetCaption:    seg.TTSText,
			SecondaryCaption: secondary,
		})

		// 2. TTS 第一次（原速）
		playlist = append(playlist, models.PracticeItem{
			Kind:             models.KindTTS,
			SongID:           songID,
			SegmentIndex:     seg.Index,
			AudioRef:         models.SegmentTTSRef(songID, seg.Index),
			PlaybackRate:     1.0,
			Label:            "🗣️ TTS",
			SourceCaption:    seg.OriginalText,
			TargetCaption:    seg.TTSText,
			SecondaryCaption: secondary,
		})

		// 3. TTS 第二次（設定為 2 次時）
		if repeat == 2 {
			rate := 1.0
			label := "🗣️ TTS (重複)"
			if opts.SlowMode {
				rate = SlowRate
				label = "🗣️ TTS (0.75x)"
			}
			playlist = append(playlist, models.PracticeItem{
				Kind:             models.KindTTSRepeat,
				SongID:           songID,
				SegmentIndex:     seg.Index,
				AudioRef:         models.SegmentTTSRef(songID, seg.Index),
				PlaybackRate:     rate,
				Label:            label,
				SourceCaption:    seg.OriginalText,
				TargetCaption:    seg.TTSText,
				SecondaryCaption: secondary,
			})
		}
	}

	return playlist
}

// secondaryCaption 從段落涵蓋的歌詞行組出次要語言字幕，
// 空白翻譯會被略過
func secondaryCaption(seg models.Segment, lines []models.LyricLine) string {
	parts := lo.FilterMap(seg.LineIndices, func(idx int, _ int) (string, bool) {
		if idx < 0 || idx >= len(lines) {
			return "", false
		}
		text := lines[idx].Translations.Secondary()
		return text, text != ""
	})
	return strings.Join(parts, " ")
}
