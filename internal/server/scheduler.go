package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/solodev/sapphai/internal/config"
)

// Scheduler manages background maintenance tasks using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *slog.Logger
	tasks     map[string]config.SchedulerTask
	taskMap   map[string]TaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler wired to the registered task functions.
func NewScheduler(log *slog.Logger, tasks map[string]config.SchedulerTask, taskMap map[string]TaskFunc) *Scheduler {
	sched, err := gocron.NewScheduler()
	if err != nil {
		// Fails only when the local timezone cannot be loaded.
		panic(fmt.Sprintf("failed to create gocron scheduler: %v", err))
	}

	return &Scheduler{
		scheduler: sched,
		log:       log.With("component", "scheduler"),
		tasks:     tasks,
		taskMap:   taskMap,
	}
}

// Start schedules every enabled task and starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduled := 0
	for name, taskCfg := range s.tasks {
		if !taskCfg.Enabled {
			s.log.Info("skipping disabled task", "task_name", name)
			continue
		}

		taskFunc, exists := s.taskMap[name]
		if !exists {
			s.log.Warn("task configured but not registered, skipping", "task_name", name)
			continue
		}
		if taskCfg.Schedule == "" {
			s.log.Warn("task enabled but has empty schedule, skipping", "task_name", name)
			continue
		}

		_, err := s.scheduler.NewJob(
			gocron.CronJob(taskCfg.Schedule, false),
			gocron.NewTask(
				func(ctx context.Context, taskName string) {
					s.log.Info("running scheduled task", "task_name", taskName)
					start := time.Now()
					if taskErr := taskFunc(ctx); taskErr != nil {
						s.log.Error("scheduled task failed", "task_name", taskName, "error", taskErr)
					}
					s.log.Info("finished scheduled task", "task_name", taskName, "duration", time.Since(start))
				},
				context.Background(),
				name,
			),
			gocron.WithName(name),
		)
		if err != nil {
			s.log.Error("failed to schedule task", "task_name", name, "schedule", taskCfg.Schedule, "error", err)
			continue
		}

		s.log.Info("scheduled task", "task_name", name, "schedule", taskCfg.Schedule)
		scheduled++
	}

	s.scheduler.Start()
	s.running = true
	s.log.Info("scheduler started", "tasks_scheduled", scheduled)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	s.running = false
	return err
}
