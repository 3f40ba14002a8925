package practice

import "github.com/123hi123/musci2practice/internal/logger"

// ApplyRetranslation 套用重新翻譯的結果：更新階段內該段落的
// TTSText，以及清單中所有回指這個段落的項目的翻譯字幕，不論項目
// 種類、是否正在播放。播放位置、播放器狀態與項目順序都不受影響；
// TTS 音訊由後端另行重產，下次播放該項目時自然取得新的內容。
func (e *Engine) ApplyRetranslation(segIdx int, newText string) {
	s := e.session
	if s == nil || newText == "" {
		return
	}

	for i := range s.Song.Segments {
		if s.Song.Segments[i].Index == segIdx {
			s.Song.Segments[i].TTSText = newText
		}
	}

	patched := 0
	for i := range s.Playlist {
		if s.Playlist[i].SegmentIndex == segIdx {
			s.Playlist[i].TargetCaption = newText
			patched++
		}
	}

	logger.Info("重新翻譯套用 session=%s segment=%d items=%d", s.ID, segIdx, patched)
	// 若目前顯示的項目屬於被更新的段落，立即重繪字幕
	e.notify()
}
