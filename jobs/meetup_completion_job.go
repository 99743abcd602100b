// File: /jobs/meetup_completion_job.go
package jobs

import (
	"log"
	"time"

	"tablemates-api/services"
)

// MeetupCompletionJob periodically sweeps open and full meetups whose
// scheduled date and time have passed and marks them completed. Completion is
// the only transition not triggered by a user action, so it lives here rather
// than in a request handler.
type MeetupCompletionJob struct {
	meetups  *services.MeetupService
	interval time.Duration
	done     chan struct{}
}

func NewMeetupCompletionJob(meetups *services.MeetupService, interval time.Duration) *MeetupCompletionJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MeetupCompletionJob{
		meetups:  meetups,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to terminate it.
func (j *MeetupCompletionJob) Start() {
	log.Printf("Meetup completion job started (interval %s)", j.interval)
	go j.run()
}

func (j *MeetupCompletionJob) Stop() {
	close(j.done)
}

func (j *MeetupCompletionJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// One pass at startup so a restart does not delay overdue sweeps
	j.RunOnce()

	for {
		select {
		case <-ticker.C:
			j.RunOnce()
		case <-j.done:
			log.Println("Meetup completion job stopped")
			return
		}
	}
}

// RunOnce performs a single sweep. Exported so tests can drive the job
// without waiting on the ticker.
func (j *MeetupCompletionJob) RunOnce() {
	now := time.Now()
	past, err := j.meetups.PastActiveMeetups(now)
	if err != nil {
		log.Printf("Completion sweep failed to list meetups: %v", err)
		return
	}

	completed := 0
	for _, meetup := range past {
		if err := j.meetups.MarkCompleted(meetup.ID); err != nil {
			log.Printf("Failed to complete meetup %s: %v", meetup.ID, err)
			continue
		}
		completed++
	}

	if completed > 0 {
		log.Printf("Completion sweep marked %d meetup(s) completed", completed)
	}
}
