package services

import (
	"time"

	"wellness-engagement-system/utils"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartExpiryScheduler sweeps overdue in-progress enrollments into the
// expired state. Expiry is also checked at write time; the sweep catches
// enrollments nobody touches again.
func (s *ChallengeService) StartExpiryScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			if _, err := s.ExpireOverdue(time.Now()); err != nil {
				utils.Logger.Error("challenge expiry sweep failed", zap.Error(err))
			}
		}),
	)
}
