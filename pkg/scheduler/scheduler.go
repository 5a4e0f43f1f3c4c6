package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// EventScheduler runs cron-addressed background jobs, currently just the
// recurrence backfill sweep.
type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	RemoveJob(id string) error
	GetJob(id string) (*JobInfo, bool)
	ListJobs() map[string]*JobInfo
	IsRunning() bool
}

type JobInfo struct {
	ID       string
	CronExpr string
	Job      *gocron.Job
	IsActive bool
	LastRun  *time.Time
	NextRun  *time.Time
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*JobInfo
	mu        sync.RWMutex
	running   bool
}

func NewEventScheduler() EventScheduler {
	s := gocron.NewScheduler(time.UTC)
	// A slow sweep must never overlap its next scheduled run.
	s.SingletonModeAll()

	return &GocronScheduler{
		scheduler: s,
		jobs:      make(map[string]*JobInfo),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Event scheduler started")
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.scheduler.Stop()
	s.running = false
	logger.Info("Event scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		now := time.Now()
		logger.Info("Executing scheduled job", "job_id", id)

		s.mu.Lock()
		if jobInfo, exists := s.jobs[id]; exists {
			jobInfo.LastRun = &now
			if jobInfo.Job != nil {
				nextRun := jobInfo.Job.NextRun()
				jobInfo.NextRun = &nextRun
			}
		}
		s.mu.Unlock()

		task()
	})
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	nextRun := job.NextRun()
	s.jobs[id] = &JobInfo{
		ID:       id,
		CronExpr: cronExpr,
		Job:      job,
		IsActive: true,
		NextRun:  &nextRun,
	}

	logger.Info("Job added", "job_id", id, "cron", cronExpr, "next_run", nextRun.Format(time.RFC3339))
	return nil
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobInfo, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	if jobInfo.Job != nil {
		s.scheduler.RemoveByReference(jobInfo.Job)
	}

	delete(s.jobs, id)
	logger.Info("Job removed", "job_id", id)
	return nil
}

func (s *GocronScheduler) GetJob(id string) (*JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobInfo, exists := s.jobs[id]
	if !exists {
		return nil, false
	}
	return copyJobInfo(jobInfo), true
}

func (s *GocronScheduler) ListJobs() map[string]*JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]*JobInfo, len(s.jobs))
	for id, jobInfo := range s.jobs {
		jobs[id] = copyJobInfo(jobInfo)
	}
	return jobs
}

func copyJobInfo(jobInfo *JobInfo) *JobInfo {
	info := &JobInfo{
		ID:       jobInfo.ID,
		CronExpr: jobInfo.CronExpr,
		Job:      jobInfo.Job,
		IsActive: jobInfo.IsActive,
	}

	if jobInfo.LastRun != nil {
		lastRun := *jobInfo.LastRun
		info.LastRun = &lastRun
	}

	if jobInfo.Job != nil {
		nextRun := jobInfo.Job.NextRun()
		info.NextRun = &nextRun
	} else if jobInfo.NextRun != nil {
		nextRun := *jobInfo.NextRun
		info.NextRun = &nextRun
	}

	return info
}

// ValidateCronExpression checks a cron expression without scheduling it.
func ValidateCronExpression(cronExpr string) error {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Cron(cronExpr).Do(func() {}); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
