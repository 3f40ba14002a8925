package models

// Segment 音訊段落
type Segment struct {
	Index        int     `json:"index"`
	StartTime    float64 `json:"startTime"`    // 開始時間（秒）
	EndTime      float64 `json:"endTime"`      // 結束時間（秒）
	Duration     float64 `json:"duration"`     // 時長（秒）
	LineIndices  []int   `json:"lineIndices"`  // 包含的歌詞行索引
	OriginalText string  `json:"originalText"` // 合併的原文
	TTSText      string  `json:"ttsText"`      // TTS 用的翻譯文字（可被重新翻譯覆寫）
}

// FirstLineIndex 段落的第一個歌詞行索引，無歌詞行時回傳 -1
func (s Segment) FirstLineIndex() int {
	if len(s.LineIndices) == 0 {
		return -1
	}
	return s.LineIndices[0]
}

// SegmentsData 段落資料
type SegmentsData struct {
	FileID   string    `json:"fileId"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language"` // TTS 語言
}
