package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-currency-api/internal/domains/country/model"
	"country-currency-api/internal/infrastructure/queue"
	"country-currency-api/internal/shared"
)

type stubRefresh struct {
	calls int
	err   error
}

func (s *stubRefresh) Refresh(ctx context.Context) (*model.RefreshResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.RefreshResult{Total: 2, Created: 1, Updated: 1, LastRefreshedAt: time.Now().UTC()}, nil
}

func TestRefreshHandlerRunsRefresh(t *testing.T) {
	stub := &stubRefresh{}
	task, err := queue.NewRefreshTask("scheduler")
	require.NoError(t, err)
	assert.Equal(t, shared.TypeRefreshCountries, task.Type())

	require.NoError(t, NewRefreshHandler(stub).ProcessTask(context.Background(), task))
	assert.Equal(t, 1, stub.calls)
}

func TestRefreshHandlerEmptyPayload(t *testing.T) {
	stub := &stubRefresh{}
	task := asynq.NewTask(shared.TypeRefreshCountries, nil)

	require.NoError(t, NewRefreshHandler(stub).ProcessTask(context.Background(), task))
	assert.Equal(t, 1, stub.calls)
}

func TestRefreshHandlerPropagatesFailure(t *testing.T) {
	stub := &stubRefresh{err: model.NewUpstreamUnavailable("Exchange Rate API", errors.New("timeout"))}
	task, err := queue.NewRefreshTask("cli")
	require.NoError(t, err)

	err = NewRefreshHandler(stub).ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.True(t, model.IsUpstreamUnavailable(err))
}

func TestRefreshHandlerBadPayload(t *testing.T) {
	stub := &stubRefresh{}
	task := asynq.NewTask(shared.TypeRefreshCountries, []byte("{not json"))

	err := NewRefreshHandler(stub).ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Equal(t, 0, stub.calls)
}
