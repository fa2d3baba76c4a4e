package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"depixel/internal/debug/timing"
	"depixel/internal/eventbus"
	"depixel/internal/logger"
	"depixel/internal/models"
	"depixel/internal/pipeline"

	"github.com/google/uuid"
)

// ModelSource hands out the shared enhancement model.
type ModelSource interface {
	Get(ctx context.Context) (pipeline.Model, error)
	Loaded() bool
}

const (
	enhancingMessage    = "Please wait, the image is being processed..."
	loadingModelMessage = "Loading the model, then processing the image..."
)

type Publisher interface {
	Publish(event eventbus.Event) bool
}

// EnhancementService runs the enhancement pipeline for the session's source
// image on a background goroutine, one task at a time. Progress is reported
// only through started/finished events.
type EnhancementService struct {
	session *models.Session
	sources *models.SourceCache
	models  ModelSource
	bus     Publisher
	timing  *timing.Tracker
	logger  logger.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

func NewEnhancementService(
	session *models.Session,
	sources *models.SourceCache,
	models ModelSource,
	bus Publisher,
	tracker *timing.Tracker,
	log logger.Logger,
) *EnhancementService {
	return &EnhancementService{
		session: session,
		sources: sources,
		models:  models,
		bus:     bus,
		timing:  tracker,
		logger:  log,
	}
}

// Start launches a task for path. It returns false without doing anything
// when a task is already running.
func (s *EnhancementService) Start(ctx context.Context, path string) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	taskID := uuid.NewString()
	go s.run(ctx, taskID, path)
	return true
}

func (s *EnhancementService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Wait blocks until the current task, if any, has published its finished
// event.
func (s *EnhancementService) Wait() {
	s.wg.Wait()
}

func (s *EnhancementService) run(ctx context.Context, taskID, path string) {
	defer s.wg.Done()

	start := time.Now()
	var (
		result *pipeline.Raster
		err    error
		stored bool
	)

	s.bus.Publish(eventbus.Event{
		Type: eventbus.EnhancementStarted,
		Data: map[string]interface{}{
			"task_id": taskID,
			"path":    path,
			"message": s.startMessage(),
		},
	})

	defer func() {
		if r := recover(); r != nil {
			err = &pipeline.InferenceError{Err: fmt.Errorf("enhancement panic: %v", r)}
			result = nil
		}

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		data := map[string]interface{}{
			"task_id":  taskID,
			"path":     path,
			"duration": time.Since(start),
			"stored":   stored,
		}
		if err != nil {
			data["error"] = err
			s.logger.Error("EnhancementService", err, map[string]interface{}{
				"task_id": taskID,
				"path":    path,
			})
		} else {
			data["result"] = result
			s.logger.Info("EnhancementService", "enhancement completed", map[string]interface{}{
				"task_id":  taskID,
				"path":     path,
				"width":    result.Width(),
				"height":   result.Height(),
				"stored":   stored,
				"duration": time.Since(start).String(),
			})
		}

		s.bus.Publish(eventbus.Event{Type: eventbus.EnhancementFinished, Data: data})
	}()

	result, err = s.process(ctx, path)
	if err != nil {
		return
	}

	stored = s.session.SetResult(path, result, time.Since(start))
	if !stored {
		s.logger.Warning("EnhancementService", "source changed during enhancement, result discarded", map[string]interface{}{
			"task_id": taskID,
			"path":    path,
		})
	}
}

func (s *EnhancementService) startMessage() string {
	if s.models != nil && !s.models.Loaded() {
		return loadingModelMessage
	}
	return enhancingMessage
}

func (s *EnhancementService) process(ctx context.Context, path string) (*pipeline.Raster, error) {
	decodeCtx := s.timing.StartTiming(ctx, "decode")
	src, err := s.sources.Get(path)
	decodeTime := s.timing.EndTiming(decodeCtx)
	if err != nil {
		return nil, err
	}

	loadCtx := s.timing.StartTiming(ctx, "model_load")
	model, err := s.models.Get(ctx)
	loadTime := s.timing.EndTiming(loadCtx)
	if err != nil {
		return nil, &pipeline.InferenceError{Err: err}
	}

	inferCtx := s.timing.StartTiming(ctx, "enhance")
	out, err := pipeline.Enhance(inferCtx, src, model)
	inferTime := s.timing.EndTiming(inferCtx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("EnhancementService", "pipeline stages", map[string]interface{}{
		"decode":       decodeTime.String(),
		"model_load":   loadTime.String(),
		"enhance":      inferTime.String(),
		"input_width":  src.Width(),
		"input_height": src.Height(),
	})
	return out, nil
}
