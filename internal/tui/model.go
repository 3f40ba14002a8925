package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/123hi123/musci2practice/internal/client"
	"github.com/123hi123/musci2practice/internal/models"
	"github.com/123hi123/musci2practice/internal/practice"
)

// view 畫面種類
type view int

const (
	viewList     view = iota // 歌曲列表
	viewPractice             // 練習播放器
)

// Model 練習客戶端的 TUI。bubbletea 的單執行緒事件迴圈就是引擎
// 要求的協作式迴圈：通道結束、載入結果等訊號全部經由 msgCh 匯流
// 回 Update 再交給引擎。
type Model struct {
	client *client.Client
	engine *practice.Engine
	msgCh  chan tea.Msg

	view     view
	songs    []models.Song
	cursor   int
	entering bool // 進入練習的載入進行中
	notice   string
	width    int
}

// NewModel 建立 TUI 模型並接好引擎的非同步掛鉤
func NewModel(c *client.Client, engine *practice.Engine, msgCh chan tea.Msg) Model {
	engine.RequestLoad = func(songID string, gen uint64) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			data, err := c.LoadSong(ctx, songID)
			msgCh <- songLoadedMsg{gen: gen, data: data, err: err}
		}()
	}
	engine.OnNotice = func(msg string) {
		select {
		case msgCh <- noticeMsg(msg):
		default:
		}
	}

	return Model{
		client: c,
		engine: engine,
		msgCh:  msgCh,
	}
}

// Init 啟動時載入歌曲目錄並開始收訊息
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSongs(), m.listen())
}

// listen 等待下一個匯流訊息
func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.msgCh
	}
}

// loadSongs 重新抓取歌曲目錄
func (m Model) loadSongs() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		songs, err := c.ListSongs(ctx)
		return songsMsg{songs: songs, err: err}
	}
}

// Update 處理訊息
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.view == viewPractice {
			return m.updatePracticeKeys(msg)
		}
		return m.updateListKeys(msg)

	case songsMsg:
		if msg.err != nil {
			m.notice = "無法載入歌曲列表"
		} else {
			m.songs = msg.songs
			if m.cursor >= len(m.songs) {
				m.cursor = 0
			}
		}
		return m, m.listen()

	case enterDataMsg:
		m.entering = false
		if msg.err != nil {
			m.notice = "無法載入段落資料"
			return m, m.listen()
		}
		if err := m.engine.Enter(msg.data, m.songs, practice.DefaultSettings()); err != nil {
			m.notice = "這首歌還沒有可練習的段落"
			return m, m.listen()
		}
		m.view = viewPractice
		m.notice = ""
		m.engine.Start()
		return m, m.listen()

	case songLoadedMsg:
		m.engine.OnSongLoaded(msg.gen, msg.data, msg.err)
		return m, m.listen()

	case itemFinishedMsg:
		m.engine.OnItemFinished(msg.ch, msg.gen)
		return m, m.listen()

	case retranslateMsg:
		if msg.err != nil {
			m.notice = "重新翻譯失敗"
		} else {
			m.engine.ApplyRetranslation(msg.segIdx, msg.text)
			m.notice = "翻譯已更新"
		}
		return m, m.listen()

	case noticeMsg:
		m.notice = string(msg)
		return m, m.listen()
	}

	return m, nil
}

// updateListKeys 歌曲列表的按鍵處理
func (m Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.songs)-1 {
			m.cursor++
		}

	case "r":
		return m, m.loadSongs()

	case "enter":
		if m.entering || m.cursor >= len(m.songs) {
			return m, nil
		}
		song := m.songs[m.cursor]
		if !song.IsReady() {
			m.notice = "這首歌還沒就緒"
			return m, nil
		}
		// 播放解鎖必須在這個按鍵處理的同步堆疊內、
		// 發出任何非同步載入之前完成
		m.engine.Unlock()
		m.entering = true
		m.notice = ""
		c := m.client
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			data, err := c.LoadSong(ctx, song.ID)
			return enterDataMsg{data: data, err: err}
		}
	}
	return m, nil
}

// updatePracticeKeys 練習播放器的按鍵處理
func (m Model) updatePracticeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.engine.Session()
	if s == nil {
		m.view = viewList
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.engine.Exit()
		return m, tea.Quit

	case "q", "esc":
		m.engine.Exit()
		m.view = viewList
		m.notice = ""
		return m, m.loadSongs()

	case " ":
		m.engine.TogglePlay()

	case "n", "right":
		m.engine.Next()

	case "p", "left":
		m.engine.Previous()

	case "x":
		m.engine.Stop()

	case "m":
		m.engine.SetMode(nextMode(s.Mode))

	case "l":
		m.engine.SetLoop(!s.Settings.Loop)

	case "c":
		m.engine.SetShowSecondary(!s.Settings.ShowSecondary)

	case "1":
		m.engine.SetRepeat(1, s.Settings.SlowMode)

	case "2":
		m.engine.SetRepeat(2, s.Settings.SlowMode)

	case "s":
		m.engine.SetRepeat(s.Settings.RepeatCount, !s.Settings.SlowMode)

	case "t":
		return m, m.retranslateCurrent()
	}
	return m, nil
}

// retranslateCurrent 替目前項目的段落發出重新翻譯請求
func (m Model) retranslateCurrent() tea.Cmd {
	s := m.engine.Session()
	it, ok := s.CurrentItem()
	if !ok {
		return nil
	}
	c := m.client
	songID := s.Song.Song.ID
	segIdx := it.SegmentIndex
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		text, err := c.Retranslate(ctx, songID, segIdx, "")
		return retranslateMsg{segIdx: segIdx, text: text, err: err}
	}
}

// nextMode 循環切換續播模式
func nextMode(mode practice.TraversalMode) practice.TraversalMode {
	switch mode {
	case practice.ModeSingle:
		return practice.ModePlaylistShuffle
	case practice.ModePlaylistShuffle:
		return practice.ModeSuperShuffle
	default:
		return practice.ModeSingle
	}
}

// View 畫面輸出
func (m Model) View() string {
	if m.view == viewPractice {
		return m.practiceView()
	}
	return m.listView()
}

// listView 歌曲列表畫面
func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🎵 多語言練習播放器"))
	b.WriteString("\n\n")

	if len(m.songs) == 0 {
		b.WriteString(dimStyle.Render("  尚無檔案，先用後端上傳並處理歌曲\n"))
	}
	for i, song := range m.songs {
		cursor := "  "
		line := fmt.Sprintf("%s %s (%s, %d 行)", statusIcon(song.Status), song.Filename, formatTime(song.Duration), song.LyricCount)
		if i == m.cursor {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	if m.entering {
		b.WriteString("\n" + dimStyle.Render("載入段落資料中..."))
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	b.WriteString(helpStyle.Render("\n↑/↓ 選擇 • enter 開始練習 • r 重新整理 • q 離開"))
	return b.String()
}

// practiceView 練習播放器畫面
func (m Model) practiceView() string {
	s := m.engine.Session()
	if s == nil {
		return ""
	}

	caption := m.engine.Caption()
	it, _ := s.CurrentItem()

	var b strings.Builder
	b.WriteString(titleStyle.Render("練習模式 — " + s.Song.Song.Filename))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(caption.Label))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  段落 %d/%d", it.SegmentIndex+1, s.SegmentCount())))
	b.WriteString("\n")

	primary := caption.PrimaryText
	if primary == "" {
		primary = "--"
	}
	if caption.PrimaryLang != "" {
		primary = fmt.Sprintf("[%s] %s", caption.PrimaryLang, primary)
	}
	box := primary
	if caption.SecondaryVisible {
		box += "\n" + secondaryStyle.Render(caption.SecondaryText)
	}
	b.WriteString(captionStyle.Render(box))
	b.WriteString("\n")

	b.WriteString(statusStyle.Render(stateIcon(m.engine.State())))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  模式:%s  循環:%s  重複:%d  慢速:%s",
		modeLabel(s.Mode), onOff(s.Settings.Loop), s.Settings.RepeatCount, onOff(s.Settings.SlowMode))))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(helpStyle.Render("space 播放/暫停 • n/p 段落切換 • m 模式 • l 循環 • 1/2 重複 • s 慢速 • c 中文字幕 • t 重新翻譯 • q 返回"))
	return b.String()
}

func statusIcon(status models.SongStatus) string {
	switch status {
	case models.StatusReady:
		return "✅"
	case models.StatusProcessing:
		return "⏳"
	case models.StatusError:
		return "❌"
	default:
		return "📄"
	}
}

func stateIcon(state practice.PlayerState) string {
	switch state {
	case practice.Playing:
		return "▶️ 播放中"
	case practice.Paused:
		return "⏸️ 暫停"
	default:
		return "⏹️ 停止"
	}
}

func modeLabel(mode practice.TraversalMode) string {
	switch mode {
	case practice.ModePlaylistShuffle:
		return "歌單隨機"
	case practice.ModeSuperShuffle:
		return "超級隨機"
	default:
		return "單曲"
	}
}

func onOff(v bool) string {
	if v {
		return "開"
	}
	return "關"
}

func formatTime(seconds float64) string {
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
