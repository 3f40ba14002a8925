package models

// Translations 翻譯內容
type Translations struct {
	Embedded string `json:"embedded,omitempty"` // 檔案內嵌翻譯
	En       string `json:"en,omitempty"`       // 英文翻譯
	Zh       string `json:"zh,omitempty"`       // 中文翻譯
}

// Secondary 次要語言翻譯（優先 zh，其次內嵌翻譯）
func (t Translations) Secondary() string {
	if t.Zh != "" {
		return t.Zh
	}
	return t.Embedded
}

// LyricLine 歌詞行
type LyricLine struct {
	Index        int          `json:"index"`
	Timestamp    string       `json:"timestamp"` // "00:01.79"
	StartTime    float64      `json:"startTime"` // 秒
	EndTime      float64      `json:"endTime"`   // 秒
	Original     string       `json:"original"`  // 原文歌詞
	Translations Translations `json:"translations"`
	IsMeaningful bool         `json:"isMeaningful"` // 是否有意義（非空白、非標記）
}

// LyricsData 歌詞資料
type LyricsData struct {
	FileID       string      `json:"fileId"`
	Lines        []LyricLine `json:"lines"`
	DetectedLang string      `json:"detectedLang"` // 檢測到的原文語言
	HasEmbedded  bool        `json:"hasEmbedded"`  // 是否有內嵌翻譯
}
