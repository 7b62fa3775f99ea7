package jobs

import (
	"context"
	"log"
	"time"

	"matchmarket/internal/services"
)

// AutomationJob periodically runs the automation cycle: status sync against
// the match feed, then resolution of finished markets
type AutomationJob struct {
	service  *services.AutomationService
	interval time.Duration
	stopChan chan struct{}
}

// NewAutomationJob creates a new automation job
func NewAutomationJob(service *services.AutomationService, interval time.Duration) *AutomationJob {
	return &AutomationJob{
		service:  service,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the automation loop
func (j *AutomationJob) Start() {
	log.Printf("[AutomationJob] Starting automation cycle (interval: %v)", j.interval)

	// Run immediately on start
	j.runCycle()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.runCycle()
		case <-j.stopChan:
			log.Println("[AutomationJob] Stopping automation cycle")
			return
		}
	}
}

// Stop stops the automation loop
func (j *AutomationJob) Stop() {
	close(j.stopChan)
}

// runCycle executes one cycle and logs a summary
func (j *AutomationJob) runCycle() {
	ctx := context.Background()

	report, err := j.service.RunAutomationCycle(ctx)
	if err != nil {
		log.Printf("[AutomationJob] Cycle failed: %v", err)
		return
	}

	updated := 0
	syncErrors := 0
	for _, r := range report.SyncResults {
		if r.Updated {
			updated++
		}
		if r.Err != "" {
			syncErrors++
		}
	}

	resolved := 0
	resolutionErrors := 0
	for _, r := range report.Resolutions {
		if r.Resolved {
			resolved++
		}
		if r.Err != "" {
			resolutionErrors++
		}
	}

	if updated > 0 || resolved > 0 || syncErrors > 0 || resolutionErrors > 0 {
		log.Printf("[AutomationJob] Cycle done in %v: %d checked, %d updated, %d resolved, %d sync errors, %d resolution errors",
			report.FinishedAt.Sub(report.StartedAt), len(report.SyncResults),
			updated, resolved, syncErrors, resolutionErrors)
	}
}
