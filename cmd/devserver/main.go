package main

import (
	"flag"
	"log"
	"os"

	"github.com/123hi123/musci2practice/internal/api"
	"github.com/123hi123/musci2practice/internal/devdata"
	"github.com/123hi123/musci2practice/internal/logger"
)

func main() {
	dataDir := flag.String("data", "./data", "處理管線輸出的資料目錄")
	flag.Parse()

	// 初始化日誌系統
	if err := logger.Init("./logs"); err != nil {
		log.Printf("Warning: Failed to init logger: %v, using default logger", err)
	}
	defer logger.Close()

	store := devdata.NewStore(*dataDir)
	router := api.NewRouter(store)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("🎵 練習開發後端啟動於 http://localhost:%s（資料目錄 %s）", port, *dataDir)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("伺服器啟動失敗:", err)
	}
}
