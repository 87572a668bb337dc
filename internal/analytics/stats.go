package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean среднее значение ряда; пустой ряд дает 0
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// PopStd стандартное отклонение генеральной совокупности (делитель n)
func PopStd(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return stat.PopStdDev(vals, nil)
}

// Median медиана ряда; пустой ряд дает 0
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return Percentile(vals, 0.5)
}

// Max максимум ряда; пустой ряд дает 0
func Max(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Percentile вычисляет перцентиль p (0..1) методом линейной интерполяции:
// ряд сортируется по возрастанию, индекс p*(n-1) интерполируется между
// двумя соседними рангами. Перцентиль gonum использует другое соглашение,
// поэтому считаем вручную.
func Percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Summarize строит агрегированную статистику по сглаженному ряду.
// Пустой вход дает нулевую сводку, а не ошибку.
func Summarize(smoothed []float64, fps float64) Summary {
	s := Summary{TotalFrames: len(smoothed)}
	if len(smoothed) == 0 {
		return s
	}

	s.AvgCount = Mean(smoothed)
	s.MedianCount = Median(smoothed)
	s.StdCount = PopStd(smoothed)
	s.MaxCount = Max(smoothed)
	s.P95Count = Percentile(smoothed, 0.95)

	for _, v := range smoothed {
		switch ClassifyCongestion(v) {
		case CongestionLow:
			s.LowFrames++
		case CongestionMedium:
			s.MediumFrames++
		default:
			s.HighFrames++
		}
	}

	if fps > 0 {
		f := fps
		d := float64(len(smoothed)) / fps
		s.FPS = &f
		s.DurationSeconds = &d
	}
	return s
}
