package api

import (
	"github.com/gin-gonic/gin"

	"github.com/123hi123/musci2practice/internal/models"
)

// Store 開發後端需要的資料介面
type Store interface {
	List() ([]models.Song, error)
	Get(id string) (models.Song, error)
	Lyrics(id string) (*models.LyricsData, error)
	Segments(id string) (*models.SegmentsData, error)
	AudioPath(id string) (string, error)
	SegmentAudioPath(id string, segIdx int) (string, error)
	SegmentTTSPath(id string, segIdx int) (string, error)
	Retranslate(id string, segIdx int, userInput string) (string, error)
}

// Router 開發後端路由器。只提供練習客戶端會消費的唯讀介面，
// 不做任何處理管線的工作。
type Router struct {
	engine *gin.Engine
	store  Store
}

// NewRouter 建立路由器
func NewRouter(store Store) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(CORSMiddleware())
	engine.Use(LoggerMiddleware())

	r := &Router{
		engine: engine,
		store:  store,
	}
	r.setupRoutes()
	return r
}

// setupRoutes 設定路由
func (r *Router) setupRoutes() {
	api := r.engine.Group("/api")
	{
		files := api.Group("/files")
		{
			files.GET("", r.handleListSongs)
			files.GET("/:id", r.handleGetSong)

			// 歌詞與段落
			files.GET("/:id/lyrics", r.handleGetLyrics)
			files.GET("/:id/segments", r.handleGetSegments)

			// 音訊
			files.GET("/:id/audio", r.handleGetAudio)
			files.GET("/:id/segments/:segIdx/audio", r.handleGetSegmentAudio)
			files.GET("/:id/segments/:segIdx/tts", r.handleGetSegmentTTS)

			// 重新翻譯
			files.POST("/:id/segments/:segIdx/retranslate", r.handleRetranslate)
		}
	}
}

// Run 啟動伺服器
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Engine 獲取底層 Gin 引擎（測試用）
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
