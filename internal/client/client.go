package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/123hi123/musci2practice/internal/models"
	"github.com/123hi123/musci2practice/internal/practice"
)

// Client 後端 API 客戶端。只消費協作端的介面：歌曲目錄、段落、
// 歌詞與重新翻譯。
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New 建立 API 客戶端
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL 後端位址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListSongs 取得歌曲目錄
func (c *Client) ListSongs(ctx context.Context) ([]models.Song, error) {
	var out struct {
		Files []models.Song `json:"files"`
	}
	if err := c.getJSON(ctx, "/api/files", &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// GetSegments 取得一首歌的段落資料
func (c *Client) GetSegments(ctx context.Context, id string) (*models.SegmentsData, error) {
	var out models.SegmentsData
	if err := c.getJSON(ctx, "/api/files/"+id+"/segments", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLyrics 取得一首歌的歌詞資料
func (c *Client) GetLyrics(ctx context.Context, id string) (*models.LyricsData, error) {
	var out models.LyricsData
	if err := c.getJSON(ctx, "/api/files/"+id+"/lyrics", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadSong 載入一首歌進入練習所需的全部資料（實作 practice.Loader）
func (c *Client) LoadSong(ctx context.Context, id string) (*practice.SongData, error) {
	var song models.Song
	if err := c.getJSON(ctx, "/api/files/"+id, &song); err != nil {
		return nil, err
	}

	segs, err := c.GetSegments(ctx, id)
	if err != nil {
		return nil, err
	}

	// 歌詞抓不到時仍可練習，只是沒有次要語言字幕
	var lines []models.LyricLine
	if lyrics, err := c.GetLyrics(ctx, id); err == nil {
		lines = lyrics.Lines
	}

	return &practice.SongData{
		Song:     song,
		Segments: segs.Segments,
		Lines:    lines,
		Language: segs.Language,
	}, nil
}

// Retranslate 請求重新翻譯一個段落。userInput 非空時作為使用者
// 修正後的原文送出。回傳新的翻譯文字。
func (c *Client) Retranslate(ctx context.Context, id string, segIdx int, userInput string) (string, error) {
	url := fmt.Sprintf("%s/api/files/%s/segments/%d/retranslate", c.baseURL, id, segIdx)

	var body io.Reader
	if userInput != "" {
		payload, _ := json.Marshal(map[string]string{"userInput": userInput})
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", practice.ErrRetranslationFailed, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", practice.ErrRetranslationFailed, err)
	}
	defer resp.Body.Close()

	var out struct {
		Translation string `json:"translation"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", practice.ErrRetranslationFailed, err)
	}
	if out.Error != "" || out.Translation == "" {
		return "", fmt.Errorf("%w: %s", practice.ErrRetranslationFailed, out.Error)
	}
	return out.Translation, nil
}

// SongAudioRef 整首歌的音訊路徑
func (c *Client) SongAudioRef(id string) string {
	return "/api/files/" + id + "/audio"
}

// getJSON 發出 GET 並解碼 JSON；任何失敗都歸類為資料無法取得
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", practice.ErrDataUnavailable, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", practice.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d (%s)", practice.ErrDataUnavailable, resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", practice.ErrDataUnavailable, err)
	}
	return nil
}
