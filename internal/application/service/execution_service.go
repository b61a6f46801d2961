package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/lifecycle"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/plan"
	"github.com/Cventura12/Clarify-AI-sub000/internal/generate"
)

// StepExecution is the result of executing one step: the advanced step plus
// everything the dispatch produced. ArtifactErrors records best-effort
// persistence failures that did not abort the step.
type StepExecution struct {
	Step           *entity.Step         `json:"step"`
	Outcome        string               `json:"outcome"`
	Draft          *generate.Draft      `json:"draft,omitempty"`
	Document       *generate.Document   `json:"document,omitempty"`
	FormFields     []generate.FormField `json:"form_fields,omitempty"`
	ArtifactByKind map[string]string    `json:"artifacts,omitempty"`
	ArtifactErrors []string             `json:"artifact_errors,omitempty"`
}

// SweepResult reports one full pass over a plan's eligible steps. On a
// fail-fast abort the counts are partial and FailedStepID names the step
// that stopped the sweep.
type SweepResult struct {
	PlanID              int64  `json:"plan_id"`
	Executed            int    `json:"executed"`
	SkippedUnauthorized int    `json:"skipped_unauthorized"`
	SkippedDependencies int    `json:"skipped_dependencies"`
	TotalSteps          int    `json:"total_steps"`
	FailedStepID        int64  `json:"failed_step_id,omitempty"`
	FailureReason       string `json:"failure_reason,omitempty"`
}

// ExecutionService is the engine that runs authorized steps: single-step
// execution, the whole-plan sweep, and reads over the execution record.
type ExecutionService interface {
	ExecuteStep(ctx context.Context, stepID int64) (*StepExecution, error)
	ExecutePlan(ctx context.Context, planID int64) (*SweepResult, error)

	StepLogs(ctx context.Context, stepID int64) ([]*entity.ExecutionLog, error)
	PlanLogs(ctx context.Context, planID int64) ([]*entity.ExecutionLog, error)
	PlanRuns(ctx context.Context, planID int64) ([]*entity.PlanRun, error)
	StepArtifacts(ctx context.Context, stepID int64) ([]*entity.FileArtifact, error)
	ArtifactContent(ctx context.Context, stepID, artifactID int64) (*entity.FileArtifact, []byte, error)
}

type executionServiceImpl struct {
	stepRepo      port.StepRepository
	planRepo      port.PlanRepository
	taskRepo      port.TaskRepository
	requestRepo   port.RequestRepository
	profileRepo   port.ProfileRepository
	logRepo       port.ExecutionLogRepository
	planRunRepo   port.PlanRunRepository
	artifactRepo  port.ArtifactRepository
	artifactStore port.ArtifactStore
	logger        Logger
}

// NewExecutionService creates a new ExecutionService
func NewExecutionService(
	stepRepo port.StepRepository,
	planRepo port.PlanRepository,
	taskRepo port.TaskRepository,
	requestRepo port.RequestRepository,
	profileRepo port.ProfileRepository,
	logRepo port.ExecutionLogRepository,
	planRunRepo port.PlanRunRepository,
	artifactRepo port.ArtifactRepository,
	artifactStore port.ArtifactStore,
	logger Logger,
) ExecutionService {
	return &executionServiceImpl{
		stepRepo:      stepRepo,
		planRepo:      planRepo,
		taskRepo:      taskRepo,
		requestRepo:   requestRepo,
		profileRepo:   profileRepo,
		logRepo:       logRepo,
		planRunRepo:   planRunRepo,
		artifactRepo:  artifactRepo,
		artifactStore: artifactStore,
		logger:        logger,
	}
}

// ExecuteStep runs one authorized step. Preconditions are checked in order:
// the step must exist, must be exactly authorized, must carry an automatable
// delegation class, and every step-reference dependency must point at a done
// sibling. Every blocked or successful attempt writes exactly one
// execution-log entry.
func (s *executionServiceImpl) ExecuteStep(ctx context.Context, stepID int64) (*StepExecution, error) {
	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, NotFoundError("step not found")
	}

	if step.Status != lifecycle.StateAuthorized.String() {
		reason := fmt.Sprintf("step is %s, not authorized", step.Status)
		if step.Delegation == entity.UserOnly {
			reason = "User-only step"
		}
		s.appendLog(ctx, stepID, entity.LogExecutionBlocked, step.Status, entity.ActorSystem,
			fmt.Sprintf(`{"reason": %q}`, reason))
		return nil, InvalidStateError(reason)
	}

	if !step.Delegation.IsAutomatable() {
		reason := "user-only step cannot be automated"
		s.appendLog(ctx, stepID, entity.LogExecutionBlocked, step.Status, entity.ActorSystem,
			fmt.Sprintf(`{"reason": %q}`, reason))
		return nil, InvalidStateError(reason)
	}

	siblings, err := s.stepRepo.GetByPlanID(ctx, step.PlanID)
	if err != nil {
		return nil, err
	}
	resolution := plan.Resolve(plan.BuildIndex(siblings), step)
	if resolution.Blocked {
		reason := fmt.Sprintf("blocked by incomplete steps %v", resolution.UnmetRefs)
		s.appendLog(ctx, stepID, entity.LogExecutionBlocked, step.Status, entity.ActorSystem,
			fmt.Sprintf(`{"reason": %q}`, reason))
		return nil, InvalidStateError(reason)
	}
	if len(resolution.DanglingRefs) > 0 {
		s.logger.Info("Step references steps missing from plan",
			"step_id", stepID, "dangling_refs", resolution.DanglingRefs)
	}

	execution := s.dispatch(ctx, step)

	// The status flip is the atomic unit: guarded by the expected prior
	// status so two concurrent executions cannot both report success.
	completedAt := time.Now()
	flipped, err := s.stepRepo.MarkDone(ctx, stepID, execution.Outcome, completedAt)
	if err != nil {
		return nil, ExecutionError("failed to complete step", err)
	}
	if !flipped {
		return nil, InvalidStateError("step was executed concurrently")
	}

	step.Status = lifecycle.StateDone.String()
	step.Outcome = execution.Outcome
	step.CompletedAt = &completedAt
	execution.Step = step

	detail, _ := json.Marshal(execution)
	s.appendLog(ctx, stepID, entity.LogStepExecuted, step.Status, entity.ActorSystem, string(detail))

	s.logger.Info("Step executed",
		"step_id", stepID,
		"delegation", step.Delegation,
		"artifacts", len(execution.ArtifactByKind),
		"artifact_errors", len(execution.ArtifactErrors))

	return execution, nil
}

// dispatch produces the delegation-class outcome and every content-matched
// artifact. The dispatch is additive: a can_draft step always drafts, and any
// step whose text matches the document or form heuristics also generates
// those, so one step can yield zero, one, or several artifacts.
func (s *executionServiceImpl) dispatch(ctx context.Context, step *entity.Step) *StepExecution {
	execution := &StepExecution{
		ArtifactByKind: map[string]string{},
	}

	switch step.Delegation {
	case entity.CanDraft:
		execution.Outcome = "Draft prepared for: " + step.Action
	case entity.CanRemind:
		execution.Outcome = "Reminder scheduled for: " + step.Action
	case entity.CanTrack:
		execution.Outcome = "Tracking enabled for: " + step.Action
	}

	if step.Delegation == entity.CanDraft {
		if draft := generate.NewDraft(step.Action, step.Detail); draft != nil {
			execution.Draft = draft
			s.persistArtifact(ctx, step, execution, entity.ArtifactDraft,
				draft.Subject, draft.Body, "text/plain")
		}
	}

	kind := generate.Classify(step.Action, step.Detail)

	if kind.Document {
		if doc := generate.NewDocument(step.Action); doc != nil {
			execution.Document = doc
			s.persistArtifact(ctx, step, execution, entity.ArtifactDocument,
				doc.Title, doc.Body, "text/markdown")
		}
	}

	if kind.Form {
		fields := generate.InferFormFields(step.Action+" "+step.Detail, s.profileFor(ctx, step))
		execution.FormFields = fields
		if payload, err := json.Marshal(fields); err == nil {
			s.persistArtifact(ctx, step, execution, entity.ArtifactForm,
				"Inferred fields: "+step.Action, string(payload), "application/json")
		}
	}

	return execution
}

// persistArtifact stores one artifact through the external store and records
// it. Either failure is appended to the error list and execution continues;
// partial success is the designed behavior.
func (s *executionServiceImpl) persistArtifact(ctx context.Context, step *entity.Step, execution *StepExecution, kind entity.ArtifactKind, title, content, contentType string) {
	name := fmt.Sprintf("%s-%d-%s", kind, step.ID, uuid.NewString()[:8])

	locator, err := s.artifactStore.Store(ctx, name, []byte(content), contentType)
	if err != nil {
		s.logger.Error("Artifact storage failed", "error", err, "step_id", step.ID, "kind", kind)
		execution.ArtifactErrors = append(execution.ArtifactErrors,
			fmt.Sprintf("%s: %v", kind, err))
		return
	}

	record := &entity.FileArtifact{
		StepID:      &step.ID,
		Name:        title,
		Kind:        kind,
		Content:     content,
		ContentType: contentType,
		Locator:     locator,
		CreatedAt:   time.Now(),
	}
	if err := s.artifactRepo.Create(ctx, record); err != nil {
		s.logger.Error("Artifact record failed", "error", err, "step_id", step.ID, "kind", kind)
		execution.ArtifactErrors = append(execution.ArtifactErrors,
			fmt.Sprintf("%s: %v", kind, err))
		return
	}

	execution.ArtifactByKind[string(kind)] = locator
}

// profileFor walks step -> plan -> task -> request to find the owning user's
// profile. A missing profile is fine; form fields fall back to user-supplied.
func (s *executionServiceImpl) profileFor(ctx context.Context, step *entity.Step) *entity.Profile {
	p, err := s.planRepo.GetByID(ctx, step.PlanID)
	if err != nil || p == nil {
		return nil
	}
	task, err := s.taskRepo.GetByID(ctx, p.TaskID)
	if err != nil || task == nil {
		return nil
	}
	request, err := s.requestRepo.GetByID(ctx, task.RequestID)
	if err != nil || request == nil {
		return nil
	}
	profile, err := s.profileRepo.GetByUserID(ctx, request.UserID)
	if err != nil {
		return nil
	}
	return profile
}

// ExecutePlan sweeps a plan's steps in step-number order exactly once.
// Terminal steps are skipped silently; dependency-blocked and unauthorized
// steps are counted without log entries since no execution was attempted.
// The first execution failure aborts the rest of the sweep: a failure here
// usually means a systemic problem, not a per-step defect, and re-invoking
// the sweep later skips everything already done.
func (s *executionServiceImpl) ExecutePlan(ctx context.Context, planID int64) (*SweepResult, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NotFoundError("plan not found")
	}

	steps, err := s.stepRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.SortByNumber(steps)
	index := plan.BuildIndex(steps)

	result := &SweepResult{
		PlanID:     planID,
		TotalSteps: len(steps),
	}

	for _, step := range steps {
		if lifecycle.State(step.Status).IsTerminal() {
			continue
		}

		// Resolve against the in-sweep view: a step completed earlier in
		// this pass satisfies a later step's reference.
		if plan.Resolve(index, step).Blocked {
			result.SkippedDependencies++
			continue
		}

		if step.Status != lifecycle.StateAuthorized.String() {
			result.SkippedUnauthorized++
			continue
		}

		execution, err := s.ExecuteStep(ctx, step.ID)
		if err != nil {
			result.FailedStepID = step.ID
			result.FailureReason = err.Error()
			s.logger.Error("Sweep aborted", "plan_id", planID, "step_id", step.ID, "error", err)
			return result, SweepAbortedError(
				fmt.Sprintf("sweep aborted at step %d", step.Number), err)
		}

		step.Status = execution.Step.Status
		result.Executed++
	}

	run := &entity.PlanRun{
		PlanID:              planID,
		Executed:            result.Executed,
		SkippedUnauthorized: result.SkippedUnauthorized,
		SkippedDependencies: result.SkippedDependencies,
		TotalSteps:          result.TotalSteps,
		CreatedAt:           time.Now(),
	}
	if err := s.planRunRepo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to record plan run", "error", err, "plan_id", planID)
	}

	s.updateTaskLifecycle(ctx, p.TaskID, steps, result.Executed)

	s.logger.Info("Plan sweep completed",
		"plan_id", planID,
		"executed", result.Executed,
		"skipped_unauthorized", result.SkippedUnauthorized,
		"skipped_dependencies", result.SkippedDependencies)

	return result, nil
}

// updateTaskLifecycle advances the owning task after a sweep: in_progress
// once anything ran, completed once every step is terminal.
func (s *executionServiceImpl) updateTaskLifecycle(ctx context.Context, taskID int64, steps []*entity.Step, executed int) {
	allTerminal := len(steps) > 0
	for _, step := range steps {
		if !lifecycle.State(step.Status).IsTerminal() {
			allTerminal = false
			break
		}
	}

	var next entity.TaskStatus
	switch {
	case allTerminal:
		next = entity.TaskCompleted
	case executed > 0:
		next = entity.TaskInProgress
	default:
		return
	}

	if err := s.taskRepo.UpdateLifecycle(ctx, taskID, next); err != nil {
		s.logger.Error("Failed to update task lifecycle", "error", err, "task_id", taskID)
	}
}

// StepLogs retrieves the audit trail of one step
func (s *executionServiceImpl) StepLogs(ctx context.Context, stepID int64) ([]*entity.ExecutionLog, error) {
	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, NotFoundError("step not found")
	}
	return s.logRepo.GetByStepID(ctx, stepID)
}

// PlanLogs retrieves the audit trail across a plan's current steps
func (s *executionServiceImpl) PlanLogs(ctx context.Context, planID int64) ([]*entity.ExecutionLog, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NotFoundError("plan not found")
	}
	return s.logRepo.GetByPlanID(ctx, planID)
}

// PlanRuns retrieves the sweep history of a plan
func (s *executionServiceImpl) PlanRuns(ctx context.Context, planID int64) ([]*entity.PlanRun, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NotFoundError("plan not found")
	}
	return s.planRunRepo.GetByPlanID(ctx, planID)
}

// StepArtifacts retrieves the artifacts a step produced
func (s *executionServiceImpl) StepArtifacts(ctx context.Context, stepID int64) ([]*entity.FileArtifact, error) {
	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, NotFoundError("step not found")
	}
	return s.artifactRepo.GetByStepID(ctx, stepID)
}

// ArtifactContent retrieves one artifact record and its stored bytes.
func (s *executionServiceImpl) ArtifactContent(ctx context.Context, stepID, artifactID int64) (*entity.FileArtifact, []byte, error) {
	artifacts, err := s.StepArtifacts(ctx, stepID)
	if err != nil {
		return nil, nil, err
	}
	for _, artifact := range artifacts {
		if artifact.ID != artifactID {
			continue
		}
		content, err := s.artifactStore.Read(ctx, artifact.Locator)
		if err != nil {
			return nil, nil, ExecutionError("failed to read artifact content", err)
		}
		return artifact, content, nil
	}
	return nil, nil, NotFoundError("artifact not found")
}

// appendLog writes an audit entry; failures are loudly logged but do not
// fail the operation that produced them.
func (s *executionServiceImpl) appendLog(ctx context.Context, stepID int64, action, status, actor, detail string) {
	entry := &entity.ExecutionLog{
		StepID:    stepID,
		Action:    action,
		Status:    status,
		Actor:     actor,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write execution log", "error", err, "step_id", stepID, "action", action)
	}
}
