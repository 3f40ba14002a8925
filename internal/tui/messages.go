package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/123hi123/musci2practice/internal/models"
	"github.com/123hi123/musci2practice/internal/practice"
)

// 所有非同步結果都化為訊息送回 bubbletea 的事件迴圈，
// 引擎只在 Update 內被呼叫，所有進入點因此被序列化。

// songsMsg 歌曲目錄載入完成
type songsMsg struct {
	songs []models.Song
	err   error
}

// enterDataMsg 進入練習的初始歌曲載入完成
type enterDataMsg struct {
	data *practice.SongData
	err  error
}

// songLoadedMsg 歌曲切換的載入結果（帶引擎核發的世代號）
type songLoadedMsg struct {
	gen  uint64
	data *practice.SongData
	err  error
}

// itemFinishedMsg 通道回報項目自然播放結束
type itemFinishedMsg struct {
	ch  practice.ChannelID
	gen uint64
}

// ItemFinished 給接線端用的結束訊息建構子
func ItemFinished(ch practice.ChannelID, gen uint64) tea.Msg {
	return itemFinishedMsg{ch: ch, gen: gen}
}

// retranslateMsg 重新翻譯請求完成
type retranslateMsg struct {
	segIdx int
	text   string
	err    error
}

// noticeMsg 使用者可見的提示
type noticeMsg string
