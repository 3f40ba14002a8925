package models

import (
	"time"
)

// SongStatus 歌曲狀態
type SongStatus string

const (
	StatusUploaded   SongStatus = "uploaded"   // 已上傳
	StatusParsed     SongStatus = "parsed"     // 已解析歌詞
	StatusProcessing SongStatus = "processing" // 處理中
	StatusReady      SongStatus = "ready"      // 處理完成
	StatusError      SongStatus = "error"      // 錯誤
)

// Song 歌曲（後端檔案列表項目）
type Song struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	Duration   float64    `json:"duration"` // 秒
	Status     SongStatus `json:"status"`
	LyricCount int        `json:"lyricCount"`
	UploadedAt time.Time  `json:"uploadedAt"`
}

// IsReady 是否可以進入練習模式
func (s Song) IsReady() bool {
	return s.Status == StatusReady
}
