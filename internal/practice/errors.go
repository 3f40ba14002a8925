package practice

import "errors"

// 練習模式的錯誤分類。所有錯誤都可恢復：停留在最後的正常狀態，
// 由使用者重試或繼續。
var (
	// ErrDataUnavailable 段落或歌詞資料無法取得
	ErrDataUnavailable = errors.New("無法載入段落資料")
	// ErrNoPlayableContent 沒有任何已就緒的歌曲可播放
	ErrNoPlayableContent = errors.New("沒有可播放的歌曲")
	// ErrPlaybackRejected 宿主環境拒絕播放請求
	ErrPlaybackRejected = errors.New("播放請求被拒絕")
	// ErrRetranslationFailed 重新翻譯請求失敗
	ErrRetranslationFailed = errors.New("重新翻譯失敗")
)
