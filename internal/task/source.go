package task

import "context"

// FrameSource лениво выдает количество машин по кадрам видео.
// Поставляется внешним сервисом детекции; последовательность конечна
// и завершается признаком done.
type FrameSource interface {
	// Meta возвращает частоту кадров и общее число кадров, если источник
	// их знает. ok=false означает, что прогресс в процентах недоступен.
	Meta() (fps float64, totalFrames int, ok bool)
	// Next возвращает количество машин следующего кадра. done=true
	// означает исчерпание источника; err — сбой источника.
	Next(ctx context.Context) (count int, done bool, err error)
	Close() error
}

// Collect синхронно вычитывает источник до конца и возвращает весь ряд
// вместе с частотой кадров (0, если неизвестна)
func Collect(ctx context.Context, src FrameSource) ([]int, float64, error) {
	defer src.Close()

	fps, _, ok := src.Meta()
	if !ok {
		fps = 0
	}

	var counts []int
	for {
		count, done, err := src.Next(ctx)
		if err != nil {
			return nil, 0, err
		}
		if done {
			break
		}
		counts = append(counts, count)
	}
	return counts, fps, nil
}
