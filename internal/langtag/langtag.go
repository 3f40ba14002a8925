package langtag

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// langTags 語言對應的顯示標籤（BCP 47 簡碼）
var langTags = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "en",
	whatlanggo.Cmn: "zh",
	whatlanggo.Jpn: "ja",
	whatlanggo.Kor: "ko",
	whatlanggo.Rus: "ru",
	whatlanggo.Spa: "es",
	whatlanggo.Fra: "fr",
	whatlanggo.Deu: "de",
}

// Detect 檢測文字的語言標籤，無法判斷時回傳空字串
func Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if tag, ok := langTags[info.Lang]; ok {
		return tag
	}
	return strings.ToLower(info.Lang.String())
}

// DetectLines 檢測整組歌詞的語言標籤（合併後檢測，結果較穩定）
func DetectLines(lines []string) string {
	return Detect(strings.Join(lines, " "))
}

// Normalize 將後端回傳的語言名稱正規化為標籤
func Normalize(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "english", "en":
		return "en"
	case "chinese", "mandarin", "zh", "traditional chinese", "simplified chinese":
		return "zh"
	case "japanese", "ja":
		return "ja"
	case "korean", "ko":
		return "ko"
	case "":
		return "en"
	default:
		return strings.ToLower(lang)
	}
}
