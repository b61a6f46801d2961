package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

func plannableTask(id int64) *entity.Task {
	return &entity.Task{
		ID:        id,
		RequestID: 1,
		Title:     "Apply for the housing grant",
		Domain:    entity.DomainHousing,
		Urgency:   entity.UrgencyHigh,
		Lifecycle: entity.TaskInterpreted,
	}
}

func TestCreatePlanHappyPath(t *testing.T) {
	producer := &mockProducer{
		planTaskFunc: func(ctx context.Context, task *entity.Task) (map[string]any, error) {
			return map[string]any{
				"total_steps": 2,
				"effort":      "hours",
				"next_action": "Gather proof of residence",
				"risk_flags": []any{
					map[string]any{"severity": "medium", "description": "Deadline is close"},
				},
				"steps": []any{
					map[string]any{
						"number": 1, "action": "Gather proof of residence",
						"delegation": "user_only", "status": "ready",
					},
					map[string]any{
						"number": 2, "action": "Draft the application email",
						"delegation": "can_draft", "status": "pending",
						"dependencies": []any{
							map[string]any{"type": "step_reference", "step_ref": 1},
						},
					},
				},
			}, nil
		},
	}

	var lifecycleUpdate entity.TaskStatus
	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
			return plannableTask(id), nil
		},
		updateLifecycleFunc: func(ctx context.Context, id int64, status entity.TaskStatus) error {
			lifecycleUpdate = status
			return nil
		},
	}

	created := 0
	stepRepo := &mockStepRepo{
		createFunc: func(ctx context.Context, step *entity.Step) error {
			created++
			step.ID = int64(created)
			return nil
		},
	}

	svc := NewPlanService(producer, taskRepo, &mockPlanRepo{}, stepRepo, &mockTxManager{}, noopLogger{})

	p, steps, err := svc.CreatePlan(context.Background(), 5)
	require.NoError(t, err)

	assert.False(t, p.Fallback)
	assert.Equal(t, 2, p.TotalSteps)
	assert.Equal(t, "Gather proof of residence", p.NextAction)
	assert.Equal(t, 1, p.DelegationSummary[entity.UserOnly])
	assert.Equal(t, 1, p.DelegationSummary[entity.CanDraft])
	assert.Equal(t, entity.TaskPlanned, lifecycleUpdate)

	require.Len(t, steps, 2)
	assert.Equal(t, "ready", steps[0].Status)
	require.Len(t, steps[1].Dependencies, 1)
	assert.Equal(t, entity.DepStepReference, steps[1].Dependencies[0].Type)
	assert.Equal(t, 1, steps[1].Dependencies[0].StepRef)
}

func TestCreatePlanProducerError(t *testing.T) {
	producer := &mockProducer{
		planTaskFunc: func(ctx context.Context, task *entity.Task) (map[string]any, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
			return plannableTask(id), nil
		},
	}

	svc := NewPlanService(producer, taskRepo, &mockPlanRepo{}, &mockStepRepo{}, &mockTxManager{}, noopLogger{})

	p, steps, err := svc.CreatePlan(context.Background(), 5)
	require.NoError(t, err)

	assert.True(t, p.Fallback)
	require.Len(t, steps, 2)
	assert.Equal(t, entity.UserOnly, steps[0].Delegation)
	assert.Equal(t, entity.UserOnly, steps[1].Delegation)
}

func TestCreatePlanEmptyOutlineFallsBack(t *testing.T) {
	producer := &mockProducer{
		planTaskFunc: func(ctx context.Context, task *entity.Task) (map[string]any, error) {
			return map[string]any{"steps": []any{}}, nil
		},
	}
	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
			return plannableTask(id), nil
		},
	}

	svc := NewPlanService(producer, taskRepo, &mockPlanRepo{}, &mockStepRepo{}, &mockTxManager{}, noopLogger{})

	p, steps, err := svc.CreatePlan(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, p.Fallback)
	assert.Len(t, steps, 2)
}

func TestCreatePlanReplacesExisting(t *testing.T) {
	producer := &mockProducer{
		planTaskFunc: func(ctx context.Context, task *entity.Task) (map[string]any, error) {
			return map[string]any{
				"steps": []any{
					map[string]any{"number": 1, "action": "Fresh first step"},
				},
			}, nil
		},
	}
	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
			task := plannableTask(id)
			task.Lifecycle = entity.TaskPlanned
			return task, nil
		},
	}

	var deletedPlan int64
	planRepo := &mockPlanRepo{
		getByTaskIDFunc: func(ctx context.Context, taskID int64) (*entity.Plan, error) {
			return &entity.Plan{ID: 77, TaskID: taskID}, nil
		},
		deleteFunc: func(ctx context.Context, id int64) error {
			deletedPlan = id
			return nil
		},
	}
	var deletedSteps int64
	stepRepo := &mockStepRepo{
		deleteByPlanIDFunc: func(ctx context.Context, planID int64) error {
			deletedSteps = planID
			return nil
		},
	}

	svc := NewPlanService(producer, taskRepo, planRepo, stepRepo, &mockTxManager{}, noopLogger{})

	_, steps, err := svc.CreatePlan(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(77), deletedPlan)
	assert.Equal(t, int64(77), deletedSteps)
	require.Len(t, steps, 1)
	assert.Equal(t, "Fresh first step", steps[0].Action)
}

func TestCreatePlanTaskNotFound(t *testing.T) {
	svc := NewPlanService(&mockProducer{}, &mockTaskRepo{}, &mockPlanRepo{}, &mockStepRepo{}, &mockTxManager{}, noopLogger{})

	_, _, err := svc.CreatePlan(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, AsError(err).Kind)
}

func TestGetPlanOrdersSteps(t *testing.T) {
	planRepo := &mockPlanRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Plan, error) {
			return &entity.Plan{ID: id, TaskID: 1}, nil
		},
	}
	stepRepo := &mockStepRepo{
		getByPlanIDFunc: func(ctx context.Context, planID int64) ([]*entity.Step, error) {
			return []*entity.Step{
				{ID: 3, PlanID: planID, Number: 3},
				{ID: 1, PlanID: planID, Number: 1},
				{ID: 2, PlanID: planID, Number: 2},
			}, nil
		},
	}

	svc := NewPlanService(&mockProducer{}, &mockTaskRepo{}, planRepo, stepRepo, &mockTxManager{}, noopLogger{})

	_, steps, err := svc.GetPlan(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, 1, steps[0].Number)
	assert.Equal(t, 2, steps[1].Number)
	assert.Equal(t, 3, steps[2].Number)
}
