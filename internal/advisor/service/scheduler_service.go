package service

import (
	"context"

	"stockpulse/internal/advisor/config"
	"stockpulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs digest generation and verification on their cron
// schedules.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	digestSvc DigestService,
	verificationSvc VerificationService,
) SchedulerService {
	return &schedulerService{
		cfg:             cfg,
		log:             log,
		digestSvc:       digestSvc,
		verificationSvc: verificationSvc,
		cron:            cron.New(),
	}
}

type schedulerService struct {
	cfg             *config.Config
	log             *logger.Logger
	digestSvc       DigestService
	verificationSvc VerificationService
	cron            *cron.Cron
}

// Start registers the configured jobs and starts the cron runner. Jobs with
// an empty cron spec are not scheduled.
func (s *schedulerService) Start(ctx context.Context) error {
	if spec := s.cfg.Digest.CronSpec; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() {
			if _, err := s.digestSvc.Generate(ctx); err != nil {
				s.log.Error("Scheduled digest generation failed", logger.ErrorField(err))
			}
		}); err != nil {
			return err
		}
		s.log.Info("Scheduled digest generation", logger.StringField("cron", spec))
	}

	if spec := s.cfg.Verification.CronSpec; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() {
			if _, err := s.verificationSvc.RunVerification(ctx); err != nil {
				s.log.Error("Scheduled verification failed", logger.ErrorField(err))
			}
		}); err != nil {
			return err
		}
		s.log.Info("Scheduled verification", logger.StringField("cron", spec))
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *schedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}
