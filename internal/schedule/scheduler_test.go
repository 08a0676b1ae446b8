package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	mu      sync.Mutex
	runs    int
	block   chan struct{}
	lastErr error
}

func (j *fakeJob) Name() string { return "fake" }

func (j *fakeJob) Run(ctx context.Context) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	if j.block != nil {
		<-j.block
	}
	return j.lastErr
}

func (j *fakeJob) runCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := NewCronScheduler()
	require.Error(t, s.AddJob(&fakeJob{}, "not a cron spec"))
}

func TestAddJobAcceptsFiveFieldSpec(t *testing.T) {
	s := NewCronScheduler()
	require.NoError(t, s.AddJob(&fakeJob{}, "*/5 * * * *"))
	require.Contains(t, s.entries, "fake")
}

func TestWrapSkipsOverlappingRuns(t *testing.T) {
	s := NewCronScheduler()
	job := &fakeJob{block: make(chan struct{})}
	wrapped := s.wrap(job, "* * * * *")

	done := make(chan struct{})
	go func() {
		wrapped()
		close(done)
	}()

	require.Eventually(t, func() bool { return job.runCount() == 1 }, time.Second, 10*time.Millisecond)

	// second invocation while the first is still running must be a no-op
	wrapped()
	require.Equal(t, 1, job.runCount())

	close(job.block)
	<-done

	// once the first run finishes the job is runnable again
	job.block = nil
	wrapped()
	require.Equal(t, 2, job.runCount())
}
