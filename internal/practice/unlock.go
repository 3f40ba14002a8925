package practice

// Unlock 播放解鎖。必須在觸發進入練習的使用者手勢同一個同步呼叫
// 堆疊內、第一個非同步操作（例如網路載入）之前執行：多數宿主環境
// 在跨過非同步邊界後就會收回程式化播放的「使用者手勢」資格。
// 對每個通道做靜音播放再立即暫停，結束後還原音量；成功與否不
// 回報，純屬盡力而為。
func (e *Engine) Unlock() {
	e.original.Warmup()
	e.tts.Warmup()
}
