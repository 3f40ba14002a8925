package practice

import (
	"math/rand"

	"github.com/samber/lo"
)

// SongQueue 歌單隨機模式的跨歌曲播放佇列。
// 佇列內只會有已就緒的歌曲；操作皆為記憶體內的純粹轉換，不做 I/O。
type SongQueue struct {
	ids []string
	pos int
}

// NewSongQueue 以已就緒的歌曲建立佇列。seedID 指定的歌曲（若也在
// readyIDs 中）保證排在第一位，其餘歌曲均勻隨機排列；seedID 為空或
// 不在就緒清單時，整組均勻洗牌。readyIDs 為空時回傳空佇列，代表
// 「沒有內容可播放」。
func NewSongQueue(readyIDs []string, seedID string) *SongQueue {
	q := &SongQueue{}
	if len(readyIDs) == 0 {
		return q
	}

	rest := lo.Filter(readyIDs, func(id string, _ int) bool {
		return id != seedID
	})
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	if len(rest) == len(readyIDs) {
		// seed 不在就緒清單中
		q.ids = rest
	} else {
		q.ids = append([]string{seedID}, rest...)
	}
	return q
}

// ReshuffleAvoidingRepeat 重新洗牌並保證新的第一首不是 currentID。
// 先從排除 currentID 的歌曲中均勻抽出新隊首，再把剩餘歌曲（含
// currentID）均勻排在後面，避免偏斜接續歌曲的機率。只剩一首歌時
// 重複無可避免，佇列即為那一首。
func (q *SongQueue) ReshuffleAvoidingRepeat(currentID string) {
	q.pos = 0
	if len(q.ids) <= 1 {
		return
	}

	others := lo.Filter(q.ids, func(id string, _ int) bool {
		return id != currentID
	})
	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	head := others[0]
	rest := append(others[1:], currentID)
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	q.ids = append([]string{head}, rest...)
}

// Len 佇列長度
func (q *SongQueue) Len() int {
	return len(q.ids)
}

// IDs 佇列內容的複本
func (q *SongQueue) IDs() []string {
	out := make([]string, len(q.ids))
	copy(out, q.ids)
	return out
}

// Position 目前游標位置
func (q *SongQueue) Position() int {
	return q.pos
}

// Current 游標所指的歌曲，空佇列回傳空字串
func (q *SongQueue) Current() string {
	if q.pos < 0 || q.pos >= len(q.ids) {
		return ""
	}
	return q.ids[q.pos]
}

// Advance 游標前進一格，越過尾端時回傳 false 且游標不動
func (q *SongQueue) Advance() bool {
	if q.pos+1 >= len(q.ids) {
		return false
	}
	q.pos++
	return true
}
