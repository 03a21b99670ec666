package jobs_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/advcompro/garage-dashboard/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRefresher struct {
	calls atomic.Int32
	err   error
	done  chan struct{}
	once  sync.Once
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("refresh called without deadline")
	}
	if f.done != nil {
		f.once.Do(func() { close(f.done) })
	}
	return f.err
}

func TestScheduler_AddRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b", "@every 1h", func() {}))
	require.NoError(t, s.AddJob("a", "*/5 * * * *", func() {}))
	require.NoError(t, s.AddJob("c", "0 15 * * * *", func() {}))
	assert.Equal(t, []string{"a", "b", "c"}, s.JobNames())

	assert.Error(t, s.AddJob("a", "@hourly", func() {}), "duplicate name")
	assert.Error(t, s.AddJob("bad", "not a cron", func() {}))

	require.NoError(t, s.RemoveJob("b"))
	assert.Error(t, s.RemoveJob("b"))
	assert.Equal(t, []string{"a", "c"}, s.JobNames())

	s.Start()
	<-s.Stop().Done()
}

func TestScheduler_RunNowRecoversPanic(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, s.AddJob("boom", "@every 1h", func() { panic("boom") }))

	require.NoError(t, s.RunNow("boom"))
	assert.Error(t, s.RunNow("missing"))
	s.Stop()
}

func TestRefreshJob_Run(t *testing.T) {
	var observed []error
	r := &fakeRefresher{err: errors.New("gateway down")}
	job := jobs.NewRefreshJob(r, time.Second, func(err error) { observed = append(observed, err) }, zap.NewNop())

	job.Run()
	assert.Equal(t, int32(1), r.calls.Load())
	require.Len(t, observed, 1)
	assert.EqualError(t, observed[0], "gateway down")

	r.err = nil
	job.Run()
	require.Len(t, observed, 2)
	assert.NoError(t, observed[1])
}

func TestRegisterRefreshJob_RunsOnStartup(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	r := &fakeRefresher{done: make(chan struct{})}
	job := jobs.NewRefreshJob(r, time.Second, nil, zap.NewNop())

	require.NoError(t, jobs.RegisterRefreshJob(s, job, "@every 1h", true))
	assert.Equal(t, []string{jobs.RefreshJobName}, s.JobNames())

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("startup refresh did not run")
	}
	s.Stop()
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestRegisterRefreshJob_WithoutStartup(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	r := &fakeRefresher{}
	require.NoError(t, jobs.RegisterRefreshJob(s, jobs.NewRefreshJob(r, time.Second, nil, zap.NewNop()), "@every 1h", false))
	s.Stop()
	assert.Equal(t, int32(0), r.calls.Load())
}
