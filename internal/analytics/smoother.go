package analytics

import "fmt"

// Smooth применяет каузальное скользящее среднее к ряду количеств машин.
// Элемент i — среднее по индексам [max(0, i-w+1), i], без заглядывания
// вперед: первые w-1 значений усредняются по меньшему числу отсчетов.
// Длина результата всегда равна длине входа; w=1 возвращает исходный ряд.
func Smooth(counts []int, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("smoothing window must be >= 1, got %d", window)
	}

	smoothed := make([]float64, len(counts))
	sum := 0
	for i, c := range counts {
		sum += c
		if i >= window {
			sum -= counts[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		smoothed[i] = float64(sum) / float64(n)
	}
	return smoothed, nil
}
