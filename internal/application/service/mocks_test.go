package service

import (
	"context"
	"time"

	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// Hand-rolled mocks with overridable function fields. Nil fields mean "not
// expected in this test" and return zero values.

type mockProducer struct {
	interpretFunc func(ctx context.Context, rawInput string) (map[string]any, error)
	planTaskFunc  func(ctx context.Context, task *entity.Task) (map[string]any, error)
}

func (m *mockProducer) Interpret(ctx context.Context, rawInput string) (map[string]any, error) {
	if m.interpretFunc != nil {
		return m.interpretFunc(ctx, rawInput)
	}
	return nil, nil
}

func (m *mockProducer) PlanTask(ctx context.Context, task *entity.Task) (map[string]any, error) {
	if m.planTaskFunc != nil {
		return m.planTaskFunc(ctx, task)
	}
	return nil, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRequestRepo struct {
	createFunc  func(ctx context.Context, request *entity.Request) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Request, error)
	listFunc    func(ctx context.Context, limit, offset int) ([]*entity.Request, error)
}

func (m *mockRequestRepo) Create(ctx context.Context, request *entity.Request) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, request)
	}
	request.ID = 1
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRequestRepo) List(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

type mockTaskRepo struct {
	createFunc          func(ctx context.Context, task *entity.Task) error
	getByIDFunc         func(ctx context.Context, id int64) (*entity.Task, error)
	getByRequestIDFunc  func(ctx context.Context, requestID int64) ([]*entity.Task, error)
	updateLifecycleFunc func(ctx context.Context, id int64, status entity.TaskStatus) error
	listFunc            func(ctx context.Context, limit, offset int) ([]*entity.Task, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, task *entity.Task) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	task.ID = 1
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTaskRepo) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Task, error) {
	if m.getByRequestIDFunc != nil {
		return m.getByRequestIDFunc(ctx, requestID)
	}
	return nil, nil
}

func (m *mockTaskRepo) UpdateLifecycle(ctx context.Context, id int64, status entity.TaskStatus) error {
	if m.updateLifecycleFunc != nil {
		return m.updateLifecycleFunc(ctx, id, status)
	}
	return nil
}

func (m *mockTaskRepo) List(ctx context.Context, limit, offset int) ([]*entity.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

type mockPlanRepo struct {
	createFunc      func(ctx context.Context, plan *entity.Plan) error
	getByIDFunc     func(ctx context.Context, id int64) (*entity.Plan, error)
	getByTaskIDFunc func(ctx context.Context, taskID int64) (*entity.Plan, error)
	deleteFunc      func(ctx context.Context, id int64) error
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *entity.Plan) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, plan)
	}
	plan.ID = 1
	return nil
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id int64) (*entity.Plan, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepo) GetByTaskID(ctx context.Context, taskID int64) (*entity.Plan, error) {
	if m.getByTaskIDFunc != nil {
		return m.getByTaskIDFunc(ctx, taskID)
	}
	return nil, nil
}

func (m *mockPlanRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockStepRepo struct {
	createFunc         func(ctx context.Context, step *entity.Step) error
	getByIDFunc        func(ctx context.Context, id int64) (*entity.Step, error)
	getByPlanIDFunc    func(ctx context.Context, planID int64) ([]*entity.Step, error)
	updateStatusFunc   func(ctx context.Context, id int64, status string) error
	markDoneFunc       func(ctx context.Context, id int64, outcome string, completedAt time.Time) (bool, error)
	deleteByPlanIDFunc func(ctx context.Context, planID int64) error
}

func (m *mockStepRepo) Create(ctx context.Context, step *entity.Step) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, step)
	}
	return nil
}

func (m *mockStepRepo) GetByID(ctx context.Context, id int64) (*entity.Step, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockStepRepo) GetByPlanID(ctx context.Context, planID int64) ([]*entity.Step, error) {
	if m.getByPlanIDFunc != nil {
		return m.getByPlanIDFunc(ctx, planID)
	}
	return nil, nil
}

func (m *mockStepRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockStepRepo) MarkDone(ctx context.Context, id int64, outcome string, completedAt time.Time) (bool, error) {
	if m.markDoneFunc != nil {
		return m.markDoneFunc(ctx, id, outcome, completedAt)
	}
	return true, nil
}

func (m *mockStepRepo) DeleteByPlanID(ctx context.Context, planID int64) error {
	if m.deleteByPlanIDFunc != nil {
		return m.deleteByPlanIDFunc(ctx, planID)
	}
	return nil
}

// mockLogRepo records every entry it receives so tests can assert on the
// audit trail.
type mockLogRepo struct {
	entries    []*entity.ExecutionLog
	createFunc func(ctx context.Context, log *entity.ExecutionLog) error
}

func (m *mockLogRepo) Create(ctx context.Context, log *entity.ExecutionLog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, log)
	}
	m.entries = append(m.entries, log)
	return nil
}

func (m *mockLogRepo) GetByStepID(ctx context.Context, stepID int64) ([]*entity.ExecutionLog, error) {
	var out []*entity.ExecutionLog
	for _, e := range m.entries {
		if e.StepID == stepID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockLogRepo) GetByPlanID(ctx context.Context, planID int64) ([]*entity.ExecutionLog, error) {
	return m.entries, nil
}

type mockPlanRunRepo struct {
	runs       []*entity.PlanRun
	createFunc func(ctx context.Context, run *entity.PlanRun) error
}

func (m *mockPlanRunRepo) Create(ctx context.Context, run *entity.PlanRun) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, run)
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockPlanRunRepo) GetByPlanID(ctx context.Context, planID int64) ([]*entity.PlanRun, error) {
	return m.runs, nil
}

type mockArtifactRepo struct {
	artifacts  []*entity.FileArtifact
	createFunc func(ctx context.Context, artifact *entity.FileArtifact) error
}

func (m *mockArtifactRepo) Create(ctx context.Context, artifact *entity.FileArtifact) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, artifact)
	}
	m.artifacts = append(m.artifacts, artifact)
	return nil
}

func (m *mockArtifactRepo) GetByStepID(ctx context.Context, stepID int64) ([]*entity.FileArtifact, error) {
	return m.artifacts, nil
}

type mockProfileRepo struct {
	getByUserIDFunc func(ctx context.Context, userID string) (*entity.Profile, error)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

type mockArtifactStore struct {
	storeFunc func(ctx context.Context, name string, content []byte, contentType string) (string, error)
	readFunc  func(ctx context.Context, locator string) ([]byte, error)
}

func (m *mockArtifactStore) Store(ctx context.Context, name string, content []byte, contentType string) (string, error) {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, name, content, contentType)
	}
	return "local://" + name, nil
}

func (m *mockArtifactStore) Read(ctx context.Context, locator string) ([]byte, error) {
	if m.readFunc != nil {
		return m.readFunc(ctx, locator)
	}
	return nil, nil
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
