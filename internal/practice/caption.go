package practice

import "github.com/123hi123/musci2practice/internal/models"

// Caption 目前項目的字幕顯示內容
type Caption struct {
	PrimaryText      string // 主字幕：原曲項目顯示原文，TTS 項目顯示翻譯
	PrimaryLang      string // 主字幕的語言標籤
	SecondaryText    string // 次要語言字幕（展開時預先組好）
	SecondaryVisible bool   // 是否顯示次要字幕
	Label            string // 播放類型標籤
}

// Caption 計算目前項目的字幕。播放原曲時主字幕是段落原文（原文
// 語言標籤），其餘項目是翻譯文字（翻譯語言標籤）；次要字幕只在
// 設定開啟且內容非空時顯示。
func (e *Engine) Caption() Caption {
	s := e.session
	if s == nil {
		return Caption{}
	}
	it, ok := s.CurrentItem()
	if !ok {
		return Caption{}
	}

	c := Caption{
		SecondaryText: it.SecondaryCaption,
		Label:         it.Label,
	}
	if it.Kind == models.KindOriginal {
		c.PrimaryText = it.SourceCaption
		c.PrimaryLang = s.SourceLang
	} else {
		c.PrimaryText = it.TargetCaption
		c.PrimaryLang = s.TargetLang
	}
	c.SecondaryVisible = s.Settings.ShowSecondary && c.SecondaryText != ""
	return c
}

// syncAnchor 讓歌詞定位行跟上現在播放的段落，與字幕顯示無關，
// 歌詞清單的高亮靠它保持同步
func (e *Engine) syncAnchor(it models.PracticeItem) {
	seg, ok := e.session.segmentByIndex(it.SegmentIndex)
	if !ok {
		return
	}
	if first := seg.FirstLineIndex(); first >= 0 && first != e.session.AnchorLine {
		e.session.AnchorLine = first
	}
}
