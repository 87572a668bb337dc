package analytics

import "sort"

// PartitionSegments разбивает ряд на непересекающиеся окна фиксированной
// ширины (примерно len/parts, минимум 1 кадр) и считает по каждому среднее
// и волатильность. Последнее окно может быть короче остальных.
func PartitionSegments(series []float64, parts int) []Segment {
	if len(series) == 0 || parts < 1 {
		return nil
	}

	width := len(series) / parts
	if width < 1 {
		width = 1
	}

	var segments []Segment
	for start := 0; start < len(series); start += width {
		end := start + width
		if end > len(series) {
			end = len(series)
		}
		vals := series[start:end]
		segments = append(segments, Segment{
			FrameStart:  start,
			FrameEnd:    end - 1,
			AvgVehicles: Mean(vals),
			Volatility:  PopStd(vals),
		})
	}
	return segments
}

// lowestVolatilitySegments возвращает до k сегментов с наименьшим
// внутренним отклонением, по возрастанию волатильности
func lowestVolatilitySegments(series []float64, k int) []Segment {
	segments := PartitionSegments(series, impactPartitionCount)
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Volatility < segments[j].Volatility
	})
	if len(segments) > k {
		segments = segments[:k]
	}
	return segments
}

// lowestDensitySegments возвращает до k сегментов с наименьшим средним
// количеством машин, по возрастанию плотности
func lowestDensitySegments(series []float64, k int) []Segment {
	segments := PartitionSegments(series, impactPartitionCount)
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].AvgVehicles < segments[j].AvgVehicles
	})
	if len(segments) > k {
		segments = segments[:k]
	}
	return segments
}
