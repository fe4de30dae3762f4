package recipe

import "math"

// ScoreSince 計算 time >= since 的評分平均值（浮點除法，不四捨五入）。
// 視窗內沒有任何評分時回傳 (0, false)，表示「無分數」而非 0 分。
func ScoreSince(ratings []Rating, since int64) (float64, bool) {
	var sum, count int
	for _, r := range ratings {
		if r.Time >= since {
			sum += r.Stars
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// Score 不限時間視窗的平均分數
func Score(ratings []Rating) (float64, bool) {
	return ScoreSince(ratings, math.MinInt64)
}
