package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/123hi123/musci2practice/internal/audio"
	"github.com/123hi123/musci2practice/internal/client"
	"github.com/123hi123/musci2practice/internal/logger"
	"github.com/123hi123/musci2practice/internal/practice"
	"github.com/123hi123/musci2practice/internal/tui"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "後端伺服器位址")
	logDir := flag.String("logs", "./logs", "日誌目錄，- 表示關閉")
	flag.Parse()

	if env := os.Getenv("MUSCI2_SERVER"); env != "" && *serverURL == "http://localhost:8080" {
		*serverURL = env
	}

	// TUI 佔用終端機，日誌只寫檔案
	if *logDir == "-" {
		logger.InitTo(io.Discard)
	} else if err := initFileLogger(*logDir); err != nil {
		logger.InitTo(io.Discard)
	}
	defer logger.Close()

	c := client.New(*serverURL)

	// 匯流訊息通道：通道結束訊號與非同步載入結果都經它回到事件迴圈
	msgCh := make(chan tea.Msg, 16)
	onFinished := func(ch practice.ChannelID, gen uint64) {
		msgCh <- tui.ItemFinished(ch, gen)
	}

	original := audio.NewSink(practice.ChannelOriginal, c.BaseURL(), onFinished)
	tts := audio.NewSink(practice.ChannelTTS, c.BaseURL(), onFinished)
	engine := practice.NewEngine(original, tts)

	model := tui.NewModel(c, engine, msgCh)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "啟動失敗: %v\n", err)
		os.Exit(1)
	}
}

func initFileLogger(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(dir+"/practice_tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	logger.InitTo(f)
	return nil
}
