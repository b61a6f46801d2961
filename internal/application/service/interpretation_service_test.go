package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/interpret"
)

func newInterpretationFixture(producer *mockProducer) (InterpretationService, *mockTaskRepo) {
	taskRepo := &mockTaskRepo{}
	svc := NewInterpretationService(
		producer, &mockRequestRepo{}, taskRepo, &mockTxManager{}, noopLogger{},
	)
	return svc, taskRepo
}

func TestCreateRequestHappyPath(t *testing.T) {
	producer := &mockProducer{
		interpretFunc: func(ctx context.Context, rawInput string) (map[string]any, error) {
			return map[string]any{
				"summary": "Renew the apartment lease",
				"tasks": []any{
					map[string]any{
						"title":   "Renew apartment lease",
						"domain":  "housing",
						"urgency": "high",
						"entities": []any{
							map[string]any{"kind": "organization", "name": "Property manager"},
						},
					},
				},
			}, nil
		},
	}
	svc, _ := newInterpretationFixture(producer)

	request, tasks, err := svc.CreateRequest(context.Background(), "user-1", "my lease expires next month")
	require.NoError(t, err)

	assert.False(t, request.Fallback)
	assert.Equal(t, "Renew the apartment lease", request.Summary)
	assert.Greater(t, request.Confidence, 0.5)

	require.Len(t, tasks, 1)
	assert.Equal(t, "Renew apartment lease", tasks[0].Title)
	assert.Equal(t, entity.DomainHousing, tasks[0].Domain)
	assert.Equal(t, request.ID, tasks[0].RequestID)
}

func TestCreateRequestProducerError(t *testing.T) {
	producer := &mockProducer{
		interpretFunc: func(ctx context.Context, rawInput string) (map[string]any, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	svc, _ := newInterpretationFixture(producer)

	request, tasks, err := svc.CreateRequest(context.Background(), "user-1", "help me sort out my taxes")
	require.NoError(t, err)

	assert.True(t, request.Fallback)
	require.Len(t, tasks, 1)
	assert.Equal(t, interpret.FallbackTitle, tasks[0].Title)
	assert.Equal(t, entity.DomainOther, tasks[0].Domain)
	assert.NotEmpty(t, tasks[0].Ambiguities)
}

func TestCreateRequestDegenerateOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{
			name: "no tasks",
			raw:  map[string]any{"summary": "nothing actionable", "tasks": []any{}},
		},
		{
			name: "only generic titles",
			raw: map[string]any{
				"tasks": []any{
					map[string]any{"title": interpret.FallbackTitle},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer := &mockProducer{
				interpretFunc: func(ctx context.Context, rawInput string) (map[string]any, error) {
					return tt.raw, nil
				},
			}
			svc, _ := newInterpretationFixture(producer)

			request, tasks, err := svc.CreateRequest(context.Background(), "user-1", "hmm")
			require.NoError(t, err)
			assert.True(t, request.Fallback)
			require.Len(t, tasks, 1)
			assert.Equal(t, interpret.FallbackTitle, tasks[0].Title)
		})
	}
}

func TestCreateRequestPersistFailure(t *testing.T) {
	producer := &mockProducer{
		interpretFunc: func(ctx context.Context, rawInput string) (map[string]any, error) {
			return map[string]any{
				"tasks": []any{map[string]any{"title": "Pay the bill"}},
			}, nil
		},
	}
	svc, taskRepo := newInterpretationFixture(producer)
	taskRepo.createFunc = func(ctx context.Context, task *entity.Task) error {
		return errors.New("constraint violation")
	}

	_, _, err := svc.CreateRequest(context.Background(), "user-1", "pay the electric bill")
	require.Error(t, err)
}

func TestAbandonTask(t *testing.T) {
	tests := []struct {
		name      string
		lifecycle entity.TaskStatus
		wantErr   bool
	}{
		{name: "interpreted", lifecycle: entity.TaskInterpreted},
		{name: "planned", lifecycle: entity.TaskPlanned},
		{name: "in progress", lifecycle: entity.TaskInProgress},
		{name: "completed refused", lifecycle: entity.TaskCompleted, wantErr: true},
		{name: "already abandoned refused", lifecycle: entity.TaskAbandoned, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := &mockTaskRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
					return &entity.Task{ID: id, Lifecycle: tt.lifecycle}, nil
				},
			}
			svc := NewInterpretationService(
				&mockProducer{}, &mockRequestRepo{}, taskRepo, &mockTxManager{}, noopLogger{},
			)

			task, err := svc.AbandonTask(context.Background(), 7)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindInvalidState, AsError(err).Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.TaskAbandoned, task.Lifecycle)
		})
	}
}

func TestGetRequestNotFound(t *testing.T) {
	svc, _ := newInterpretationFixture(&mockProducer{})

	_, _, err := svc.GetRequest(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, AsError(err).Kind)
}
