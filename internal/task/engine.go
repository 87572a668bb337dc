package task

import (
	"context"
	"fmt"
	"sync"

	"traffic-intel-go/internal/analytics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status состояние задачи анализа
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// IsTerminal сообщает, достигла ли задача конечного состояния
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// ErrCancelled текст ошибки отмененной задачи
const ErrCancelled = "analysis cancelled by caller"

// Options параметры одного прогона анализа
type Options struct {
	VideoRef        string
	SaveOverlay     bool
	SmoothingWindow int
	ConfThreshold   float64
	EmissionFactor  float64
	EntranceBias    float64
}

// Snapshot согласованный снимок состояния задачи для опрашивающих
// клиентов. result заполнен только в состоянии done, error — только
// в состоянии error; полусобранные результаты никогда не видны.
type Snapshot struct {
	ID         string                    `json:"task_id"`
	Status     Status                    `json:"status"`
	Processed  int                       `json:"processed"`
	Total      *int                      `json:"total,omitempty"`
	Percentage *float64                  `json:"percentage,omitempty"`
	Result     *analytics.AnalysisResult `json:"result,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

// taskState внутреннее состояние задачи. Поля изменяет только рабочая
// горутина задачи (и Cancel), всегда под мьютексом движка.
type taskState struct {
	id         string
	status     Status
	processed  int
	total      *int
	percentage *float64
	result     *analytics.AnalysisResult
	errText    string
	opts       Options
	cancel     context.CancelFunc
}

// CompletionHook вызывается после успешного завершения задачи
type CompletionHook func(taskID string, opts Options, result *analytics.AnalysisResult)

// Engine владеет жизненным циклом задач анализа: принимает источник
// кадров, запускает рабочую горутину, отдает снимки прогресса и итоговый
// результат. Одна задача — один писатель; читателей сколько угодно.
type Engine struct {
	mu         sync.RWMutex
	tasks      map[string]*taskState
	pipeline   *analytics.Pipeline
	logger     *logrus.Logger
	onComplete CompletionHook
}

// NewEngine создает движок задач. onComplete может быть nil.
func NewEngine(pipeline *analytics.Pipeline, logger *logrus.Logger, onComplete CompletionHook) *Engine {
	return &Engine{
		tasks:      make(map[string]*taskState),
		pipeline:   pipeline,
		logger:     logger,
		onComplete: onComplete,
	}
}

// Submit регистрирует задачу и запускает ее рабочую горутину.
// Ошибки валидации возвращаются синхронно и не создают задачу.
func (e *Engine) Submit(source FrameSource, opts Options) (Snapshot, error) {
	if opts.SmoothingWindow < 1 {
		return Snapshot{}, fmt.Errorf("smoothing window must be >= 1, got %d", opts.SmoothingWindow)
	}

	ctx, cancel := context.WithCancel(context.Background())
	st := &taskState{
		id:     uuid.New().String(),
		status: StatusQueued,
		opts:   opts,
		cancel: cancel,
	}

	e.mu.Lock()
	e.tasks[st.id] = st
	snap := e.snapshotLocked(st)
	e.mu.Unlock()

	e.logger.Infof("Задача %s создана для видео %s", st.id, opts.VideoRef)
	go e.run(ctx, st, source)

	return snap, nil
}

// run рабочий цикл задачи: читает кадры, обновляет прогресс, по
// исчерпании источника запускает конвейер и фиксирует результат
func (e *Engine) run(ctx context.Context, st *taskState, source FrameSource) {
	defer source.Close()

	fps := 0.0
	if f, total, ok := source.Meta(); ok {
		fps = f
		if total > 0 {
			t := total
			e.mu.Lock()
			st.total = &t
			e.mu.Unlock()
		}
	}

	var counts []int
	for {
		count, done, err := source.Next(ctx)
		if err != nil {
			e.fail(st, err.Error())
			return
		}
		if done {
			break
		}

		counts = append(counts, count)
		if !e.advance(st) {
			// Задача уже в конечном состоянии (отменена) — выходим
			return
		}
	}

	result, err := e.pipeline.Run(analytics.RunInput{
		Counts:          counts,
		FPS:             fps,
		SmoothingWindow: st.opts.SmoothingWindow,
		ConfThreshold:   st.opts.ConfThreshold,
		EmissionFactor:  st.opts.EmissionFactor,
		EntranceBias:    st.opts.EntranceBias,
	})
	if err != nil {
		e.fail(st, err.Error())
		return
	}

	e.mu.Lock()
	if st.status.IsTerminal() {
		e.mu.Unlock()
		return
	}
	st.status = StatusDone
	st.result = result
	e.mu.Unlock()

	e.logger.Infof("Задача %s завершена: %d кадров, загруженность %s",
		st.id, result.Summary.TotalFrames, result.OverallCongestion)

	if e.onComplete != nil {
		e.onComplete(st.id, st.opts, result)
	}
}

// advance учитывает обработанный кадр; false — задача уже завершена
func (e *Engine) advance(st *taskState) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if st.status.IsTerminal() {
		return false
	}
	if st.status == StatusQueued {
		st.status = StatusProcessing
	}
	st.processed++
	if st.total != nil && *st.total > 0 {
		pct := float64(st.processed) / float64(*st.total) * 100.0
		st.percentage = &pct
	}
	return true
}

// fail переводит задачу в состояние error, если она еще не завершена
func (e *Engine) fail(st *taskState, cause string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if st.status.IsTerminal() {
		return
	}
	st.status = StatusError
	st.errText = cause
	e.logger.Errorf("Задача %s завершилась с ошибкой: %s", st.id, cause)
}

// Cancel кооперативно отменяет задачу. После возврата задача
// гарантированно в конечном состоянии error с текстом отмены.
// Отмена задачи в конечном состоянии — ошибка.
func (e *Engine) Cancel(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.tasks[id]
	if !ok {
		return fmt.Errorf("task %s not found", id)
	}
	if st.status.IsTerminal() {
		return fmt.Errorf("task %s is already in terminal state %s", id, st.status)
	}

	st.status = StatusError
	st.errText = ErrCancelled
	st.cancel()
	e.logger.Infof("Задача %s отменена по запросу клиента", id)
	return nil
}

// Snapshot возвращает согласованный снимок состояния задачи
func (e *Engine) Snapshot(id string) (Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.tasks[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("task %s not found", id)
	}
	return e.snapshotLocked(st), nil
}

// Result возвращает итоговый результат завершенной задачи
func (e *Engine) Result(id string) (*analytics.AnalysisResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s not found", id)
	}
	if st.status != StatusDone {
		return nil, fmt.Errorf("task %s has no result: status is %s", id, st.status)
	}
	return st.result, nil
}

// LatestResult возвращает результат последней завершенной задачи,
// если такая есть
func (e *Engine) LatestResult() (*analytics.AnalysisResult, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, st := range e.tasks {
		if st.status == StatusDone && st.result != nil {
			return st.result, true
		}
	}
	return nil, false
}

// snapshotLocked собирает снимок; вызывается только под мьютексом.
// AnalysisResult неизменяем после записи, поэтому указатель разделяется.
func (e *Engine) snapshotLocked(st *taskState) Snapshot {
	snap := Snapshot{
		ID:        st.id,
		Status:    st.status,
		Processed: st.processed,
	}
	if st.total != nil {
		t := *st.total
		snap.Total = &t
	}
	if st.percentage != nil {
		p := *st.percentage
		snap.Percentage = &p
	}
	if st.status == StatusDone {
		snap.Result = st.result
	}
	if st.status == StatusError {
		snap.Error = st.errText
	}
	return snap
}
