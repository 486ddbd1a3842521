package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/storage/object/memory"
)

func TestSchedulerRunsAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := NewScheduler(New(memory.New(), resumes.NewMemoryRepo(), 0), "@every 1s")
	require.NoError(t, sched.Start(context.Background()))

	require.Eventually(t, func() bool { return sched.Runs() > 0 }, 5*time.Second, 50*time.Millisecond)
	sched.Stop()
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	sched := NewScheduler(New(memory.New(), resumes.NewMemoryRepo(), 0), "every now and then")
	require.Error(t, sched.Start(context.Background()))
}
