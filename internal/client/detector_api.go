package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DetectorClient клиент сервиса детекции машин (Python API).
// Сервис декодирует видео, прогоняет модель и отдает количество машин
// по кадрам потоком NDJSON: сначала событие meta, затем по событию
// frame на каждый кадр.
type DetectorClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewDetectorClient создает новый клиент сервиса детекции
func NewDetectorClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *DetectorClient {
	return &DetectorClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// streamEvent одна строка NDJSON-потока детекции
type streamEvent struct {
	Type         string  `json:"type"`
	FPS          float64 `json:"fps,omitempty"`
	TotalFrames  int     `json:"total_frames,omitempty"`
	FrameIndex   int     `json:"frame_index,omitempty"`
	VehicleCount int     `json:"vehicle_count,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// OpenFrameStream открывает поток количеств машин по кадрам видео.
// Первое событие потока (meta) вычитывается сразу, чтобы частота кадров
// и общее число кадров были доступны до начала обработки.
func (c *DetectorClient) OpenFrameStream(videoPath string, confThreshold float64, saveOverlay bool) (*FrameStream, error) {
	c.logger.Infof("Открываем поток детекции для видео %s", videoPath)

	form := url.Values{}
	form.Set("video_path", videoPath)
	form.Set("conf_threshold", strconv.FormatFloat(confThreshold, 'f', 2, 64))
	form.Set("save_overlay", strconv.FormatBool(saveOverlay))

	reqURL := fmt.Sprintf("%s/detect/stream", c.baseURL)
	req, err := http.NewRequest("POST", reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debugf("Отправка POST запроса на %s", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка отправки HTTP запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("сервис детекции вернул ошибку: статус %d, тело: %s", resp.StatusCode, string(body))
	}

	stream := &FrameStream{
		resp:    resp,
		scanner: bufio.NewScanner(resp.Body),
	}

	// Первая строка потока — метаданные видео
	if ev, ok, err := stream.nextEvent(); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка чтения метаданных потока: %w", err)
	} else if ok && ev.Type == "meta" {
		stream.fps = ev.FPS
		stream.total = ev.TotalFrames
		stream.hasMeta = true
	} else if ok {
		// Сервис не прислал метаданные — первое событие буферизуем
		stream.pending = &ev
	}

	c.logger.Infof("Поток детекции открыт: fps=%.1f, всего кадров=%d", stream.fps, stream.total)
	return stream, nil
}

// CheckHealth проверяет состояние сервиса детекции
func (c *DetectorClient) CheckHealth() error {
	c.logger.Debug("Проверка здоровья сервиса детекции")

	reqURL := fmt.Sprintf("%s/health", c.baseURL)
	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return fmt.Errorf("ошибка отправки HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("сервис детекции вернул ошибку: статус %d, тело: %s", resp.StatusCode, string(body))
	}
	return nil
}

// FrameStream лениво читаемый поток количеств машин. Реализует
// task.FrameSource: кадры вычитываются по одному по мере готовности
// сервиса детекции.
type FrameStream struct {
	resp    *http.Response
	scanner *bufio.Scanner
	pending *streamEvent
	fps     float64
	total   int
	hasMeta bool
	closed  bool
}

// Meta возвращает метаданные видео, если сервис их прислал
func (s *FrameStream) Meta() (float64, int, bool) {
	return s.fps, s.total, s.hasMeta
}

// Next возвращает количество машин следующего кадра. done=true при
// исчерпании потока; событие error из потока превращается в ошибку.
func (s *FrameStream) Next(ctx context.Context) (int, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}

		var ev streamEvent
		if s.pending != nil {
			ev = *s.pending
			s.pending = nil
		} else {
			next, ok, err := s.nextEvent()
			if err != nil {
				return 0, false, err
			}
			if !ok {
				return 0, true, nil
			}
			ev = next
		}

		switch ev.Type {
		case "frame":
			return ev.VehicleCount, false, nil
		case "error":
			return 0, false, fmt.Errorf("сбой сервиса детекции: %s", ev.Message)
		case "done":
			return 0, true, nil
		default:
			// meta или неизвестное событие посреди потока — пропускаем
		}
	}
}

// Close закрывает HTTP-соединение потока
func (s *FrameStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.resp.Body.Close()
}

// nextEvent читает и разбирает следующую строку NDJSON
func (s *FrameStream) nextEvent() (streamEvent, bool, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return streamEvent{}, false, fmt.Errorf("ошибка парсинга строки потока: %w", err)
		}
		return ev, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return streamEvent{}, false, fmt.Errorf("ошибка чтения потока: %w", err)
	}
	return streamEvent{}, false, nil
}
