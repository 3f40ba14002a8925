package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleListSongs 獲取歌曲列表
func (r *Router) handleListSongs(c *gin.Context) {
	songs, err := r.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": songs})
}

// handleGetSong 獲取歌曲詳情
func (r *Router) handleGetSong(c *gin.Context) {
	song, err := r.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "檔案不存在"})
		return
	}
	c.JSON(http.StatusOK, song)
}

// handleGetLyrics 獲取歌詞
func (r *Router) handleGetLyrics(c *gin.Context) {
	lyrics, err := r.store.Lyrics(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "無法取得歌詞"})
		return
	}
	c.JSON(http.StatusOK, lyrics)
}

// handleGetSegments 獲取段落
func (r *Router) handleGetSegments(c *gin.Context) {
	segments, err := r.store.Segments(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "無法取得段落"})
		return
	}
	c.JSON(http.StatusOK, segments)
}

// handleGetAudio 獲取原始音訊
func (r *Router) handleGetAudio(c *gin.Context) {
	path, err := r.store.AudioPath(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "檔案不存在"})
		return
	}
	c.File(path)
}

// handleGetSegmentAudio 獲取段落音訊
func (r *Router) handleGetSegmentAudio(c *gin.Context) {
	segIdx, _ := strconv.Atoi(c.Param("segIdx"))
	path, err := r.store.SegmentAudioPath(c.Param("id"), segIdx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "段落音訊不存在"})
		return
	}
	c.File(path)
}

// handleGetSegmentTTS 獲取段落 TTS
func (r *Router) handleGetSegmentTTS(c *gin.Context) {
	segIdx, _ := strconv.Atoi(c.Param("segIdx"))
	path, err := r.store.SegmentTTSPath(c.Param("id"), segIdx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "TTS 音訊不存在"})
		return
	}
	c.File(path)
}

// handleRetranslate 重新翻譯段落
func (r *Router) handleRetranslate(c *gin.Context) {
	segIdx, _ := strconv.Atoi(c.Param("segIdx"))

	var body struct {
		UserInput string `json:"userInput"`
	}
	c.ShouldBindJSON(&body) // 可選

	translation, err := r.store.Retranslate(c.Param("id"), segIdx, body.UserInput)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"translation":  translation,
		"segmentIndex": segIdx,
		"success":      true,
	})
}
