package devdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/123hi123/musci2practice/internal/models"
)

// Store 開發後端的唯讀資料存取。資料目錄沿用處理管線的輸出格式：
//
//	data/<id>/meta.json
//	data/<id>/lyrics.json
//	data/<id>/segments.json
//	data/<id>/original.mp3
//	data/<id>/segments/segment_<n>.mp3
//	data/<id>/tts/tts_<n>.mp3
//	data/<id>/retranslations.json（可選，重新翻譯的替代文字）
type Store struct {
	dataDir string
}

// NewStore 建立資料存取
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// List 列出所有歌曲
func (s *Store) List() ([]models.Song, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, err
	}

	var songs []models.Song
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var song models.Song
		if err := s.readJSON(filepath.Join(entry.Name(), "meta.json"), &song); err != nil {
			continue
		}
		songs = append(songs, song)
	}
	sort.Slice(songs, func(i, j int) bool {
		return songs[i].UploadedAt.Before(songs[j].UploadedAt)
	})
	return songs, nil
}

// Get 取得單首歌曲
func (s *Store) Get(id string) (models.Song, error) {
	var song models.Song
	if err := s.readJSON(filepath.Join(id, "meta.json"), &song); err != nil {
		return models.Song{}, errors.New("檔案不存在")
	}
	return song, nil
}

// Lyrics 取得歌詞資料
func (s *Store) Lyrics(id string) (*models.LyricsData, error) {
	var lyrics models.LyricsData
	if err := s.readJSON(filepath.Join(id, "lyrics.json"), &lyrics); err != nil {
		return nil, errors.New("無法取得歌詞")
	}
	return &lyrics, nil
}

// Segments 取得段落資料
func (s *Store) Segments(id string) (*models.SegmentsData, error) {
	var segments models.SegmentsData
	if err := s.readJSON(filepath.Join(id, "segments.json"), &segments); err != nil {
		return nil, errors.New("無法取得段落")
	}
	return &segments, nil
}

// AudioPath 整首歌的音訊檔路徑
func (s *Store) AudioPath(id string) (string, error) {
	path := filepath.Join(s.dataDir, id, "original.mp3")
	if _, err := os.Stat(path); err != nil {
		return "", errors.New("檔案不存在")
	}
	return path, nil
}

// SegmentAudioPath 段落原曲音訊檔路徑
func (s *Store) SegmentAudioPath(id string, segIdx int) (string, error) {
	path := filepath.Join(s.dataDir, id, "segments", "segment_"+strconv.Itoa(segIdx)+".mp3")
	if _, err := os.Stat(path); err != nil {
		return "", errors.New("段落音訊不存在")
	}
	return path, nil
}

// SegmentTTSPath 段落 TTS 音訊檔路徑
func (s *Store) SegmentTTSPath(id string, segIdx int) (string, error) {
	path := filepath.Join(s.dataDir, id, "tts", "tts_"+strconv.Itoa(segIdx)+".mp3")
	if _, err := os.Stat(path); err != nil {
		return "", errors.New("TTS 音訊不存在")
	}
	return path, nil
}

// Retranslate 重新翻譯的開發替身：優先回傳 retranslations.json 中
// 該段落的替代文字；沒有時把使用者輸入當作修正結果回傳；兩者都
// 沒有就回報錯誤，讓客戶端走失敗路徑。
func (s *Store) Retranslate(id string, segIdx int, userInput string) (string, error) {
	overrides := map[string]string{}
	_ = s.readJSON(filepath.Join(id, "retranslations.json"), &overrides)

	if text, ok := overrides[strconv.Itoa(segIdx)]; ok && text != "" {
		return text, nil
	}
	if userInput != "" {
		return userInput, nil
	}
	return "", fmt.Errorf("段落 %d 沒有替代翻譯", segIdx)
}

func (s *Store) readJSON(rel string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, rel))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
