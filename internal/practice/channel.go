package practice

// ChannelID 媒體通道識別
type ChannelID int

const (
	ChannelOriginal ChannelID = iota // 原曲音訊通道
	ChannelTTS                       // TTS 音訊通道
)

// String 通道名稱（日誌用）
func (id ChannelID) String() string {
	if id == ChannelOriginal {
		return "original"
	}
	return "tts"
}

// Channel 媒體播放通道。兩個通道互斥：引擎在其中一個開始播放前
// 必定先暫停另一個。
type Channel interface {
	// Play 以指定倍速播放資源。gen 是引擎核發的播放代號；通道在
	// 自然播放結束時必須帶回相同代號回報（見 Engine.OnItemFinished），
	// 被 Pause/Stop 中斷的播放不得回報結束。回傳錯誤代表播放請求
	// 被宿主拒絕。
	Play(ref string, rate float64, gen uint64) error
	// Pause 暫停目前播放
	Pause()
	// Stop 停止並捨棄目前資源
	Stop()
	// Warmup 最佳努力的播放解鎖：對已載入的來源做靜音播放再立即
	// 暫停，結束後還原音量。成功與否不回報。
	Warmup()
}
