package models

import "fmt"

// ItemKind 練習播放項目種類
type ItemKind string

const (
	KindOriginal  ItemKind = "original"   // 原曲段落
	KindTTS       ItemKind = "tts"        // TTS 第一次（原速）
	KindTTSRepeat ItemKind = "tts-repeat" // TTS 第二次（可慢速）
)

// PracticeItem 練習播放項目，由段落展開而來
type PracticeItem struct {
	Kind         ItemKind `json:"kind"`
	SongID       string   `json:"songId"`
	SegmentIndex int      `json:"segmentIndex"` // 回指段落索引
	AudioRef     string   `json:"audioRef"`     // 音訊資源路徑（相對於後端）
	PlaybackRate float64  `json:"playbackRate"` // 1.0 或慢速 0.75
	Label        string   `json:"label"`        // 顯示用標籤

	// 展開時從段落與歌詞行衍生的字幕，重新翻譯後會被覆寫
	SourceCaption    string `json:"sourceCaption"`    // 原文
	TargetCaption    string `json:"targetCaption"`    // 翻譯（TTS 文字）
	SecondaryCaption string `json:"secondaryCaption"` // 次要語言（中文）
}

// SegmentAudioRef 段落原曲音訊路徑
func SegmentAudioRef(songID string, segIdx int) string {
	return fmt.Sprintf("/api/files/%s/segments/%d/audio", songID, segIdx)
}

// SegmentTTSRef 段落 TTS 音訊路徑
func SegmentTTSRef(songID string, segIdx int) string {
	return fmt.Sprintf("/api/files/%s/segments/%d/tts", songID, segIdx)
}
