// Package scheduler runs the fetch, compute and train jobs on cron schedules.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Job names.
const (
	JobFetch   = "fetch"
	JobCompute = "compute"
	JobTrain   = "train"
)

// Config holds standard five-field cron expressions. An empty expression disables the job.
type Config struct {
	FetchCron   string `yaml:"fetch_cron" json:"fetch_cron" jsonschema:"title=Fetch Cron,description=When to download new bars (empty disables)"`
	ComputeCron string `yaml:"compute_cron" json:"compute_cron" jsonschema:"title=Compute Cron,description=When to recompute every indicator table (empty disables),default=30 22 * * 1-5"`
	TrainCron   string `yaml:"train_cron" json:"train_cron" jsonschema:"title=Train Cron,description=When to retrain the classifier (empty disables)"`
	// RunOnStart runs the compute job once when the scheduler starts.
	RunOnStart bool `yaml:"run_on_start" json:"run_on_start" jsonschema:"title=Run On Start,description=Recompute indicators when serve starts"`
	// Timeout bounds a single job run. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"title=Timeout,description=Maximum duration of one job run in nanoseconds (YAML accepts 1h)" validate:"min=0"`
}

// DefaultConfig recomputes indicators after the US close on weekdays.
func DefaultConfig() Config {
	return Config{
		FetchCron:   "",
		ComputeCron: "30 22 * * 1-5",
		TrainCron:   "",
		RunOnStart:  false,
		Timeout:     time.Hour,
	}
}

// Validate checks every expression.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid scheduler config", err)
	}

	for name, spec := range c.specs() {
		if spec == "" {
			continue
		}

		if _, err := cron.ParseStandard(spec); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s cron expression %q", name, spec)
		}
	}

	return nil
}

func (c Config) specs() map[string]string {
	return map[string]string{
		JobFetch:   c.FetchCron,
		JobCompute: c.ComputeCron,
		JobTrain:   c.TrainCron,
	}
}

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Jobs holds the work of each schedule. A nil job is never registered.
type Jobs struct {
	Fetch   Job
	Compute Job
	Train   Job
}

func (j Jobs) byName() map[string]Job {
	return map[string]Job{
		JobFetch:   j.Fetch,
		JobCompute: j.Compute,
		JobTrain:   j.Train,
	}
}

// Scheduler manages the cron entries.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	config  Config
	jobs    map[string]Job
	logger  *logger.Logger
	entries map[string]cron.EntryID
	startup sync.WaitGroup
}

// NewScheduler creates a scheduler whose jobs run with ctx. Overlapping runs of
// the same job are skipped and panics are recovered.
func NewScheduler(ctx context.Context, config Config, jobs Jobs, log *logger.Logger) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	cronLog := cronLogger{log: log.Sugar()}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:     ctx,
		config:  config,
		jobs:    jobs.byName(),
		logger:  log,
		entries: make(map[string]cron.EntryID),
	}

	if err := s.register(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) register() error {
	for name, spec := range s.config.specs() {
		job := s.jobs[name]
		if spec == "" || job == nil {
			continue
		}

		id, err := s.cron.AddFunc(spec, func() { _ = s.RunNow(name) })
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to register %s job", name)
		}

		s.entries[name] = id
		s.logger.Info("Registered job", zap.String("job", name), zap.String("cron", spec))
	}

	return nil
}

// Registered reports whether the named job has a cron entry.
func (s *Scheduler) Registered(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Next returns the next run time of the named job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}

	return s.cron.Entry(id).Next, true
}

// RunNow executes the named job synchronously and returns its error.
func (s *Scheduler) RunNow(name string) error {
	job := s.jobs[name]
	if job == nil {
		return errors.Newf(errors.ErrCodeInvalidParameter, "no %s job configured", name)
	}

	ctx := s.ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)

		defer cancel()
	}

	log := s.logger.With(zap.String("job", name))
	start := time.Now()

	log.Info("Job started")

	if err := job(ctx); err != nil {
		log.Error("Job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return err
	}

	log.Info("Job finished", zap.Duration("duration", time.Since(start)))

	return nil
}

// Start starts the cron loop, running the compute job first when RunOnStart is set.
func (s *Scheduler) Start() {
	if s.config.RunOnStart && s.jobs[JobCompute] != nil {
		s.startup.Add(1)

		go func() {
			defer s.startup.Done()

			_ = s.RunNow(JobCompute)
		}()
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	s.logger.Info("Scheduler stopped")
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
