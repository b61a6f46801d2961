package entity

// TaskDomain is the closed set of life areas a task can belong to.
type TaskDomain string

const (
	DomainFollowUp       TaskDomain = "follow_up"
	DomainPortal         TaskDomain = "portal"
	DomainJobApplication TaskDomain = "job_application"
	DomainScholarship    TaskDomain = "scholarship"
	DomainAcademic       TaskDomain = "academic"
	DomainFinancial      TaskDomain = "financial"
	DomainMedical        TaskDomain = "medical"
	DomainLegal          TaskDomain = "legal"
	DomainHousing        TaskDomain = "housing"
	DomainOther          TaskDomain = "other"
)

var validDomains = map[TaskDomain]bool{
	DomainFollowUp:       true,
	DomainPortal:         true,
	DomainJobApplication: true,
	DomainScholarship:    true,
	DomainAcademic:       true,
	DomainFinancial:      true,
	DomainMedical:        true,
	DomainLegal:          true,
	DomainHousing:        true,
	DomainOther:          true,
}

// IsValid returns true if the domain is a member of the closed set.
func (d TaskDomain) IsValid() bool {
	return validDomains[d]
}

// Urgency grades how time-sensitive a task is.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

var validUrgencies = map[Urgency]bool{
	UrgencyCritical: true,
	UrgencyHigh:     true,
	UrgencyMedium:   true,
	UrgencyLow:      true,
}

// IsValid returns true if the urgency is a recognized grade.
func (u Urgency) IsValid() bool {
	return validUrgencies[u]
}

// Complexity grades how involved a task is expected to be.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

var validComplexities = map[Complexity]bool{
	ComplexitySimple:   true,
	ComplexityModerate: true,
	ComplexityComplex:  true,
}

// IsValid returns true if the complexity is a recognized grade.
func (c Complexity) IsValid() bool {
	return validComplexities[c]
}

// TaskStatus is the task lifecycle anchor.
type TaskStatus string

const (
	TaskInterpreted TaskStatus = "interpreted"
	TaskPlanned     TaskStatus = "planned"
	TaskInProgress  TaskStatus = "in_progress"
	TaskCompleted   TaskStatus = "completed"
	TaskAbandoned   TaskStatus = "abandoned"
)

// DelegationClass describes which party can perform a step.
type DelegationClass string

const (
	CanDraft  DelegationClass = "can_draft"
	CanRemind DelegationClass = "can_remind"
	CanTrack  DelegationClass = "can_track"
	UserOnly  DelegationClass = "user_only"
)

var validDelegations = map[DelegationClass]bool{
	CanDraft:  true,
	CanRemind: true,
	CanTrack:  true,
	UserOnly:  true,
}

// IsValid returns true if the delegation class is recognized.
func (d DelegationClass) IsValid() bool {
	return validDelegations[d]
}

// IsAutomatable returns true for classes the execution engine may dispatch.
func (d DelegationClass) IsAutomatable() bool {
	return d == CanDraft || d == CanRemind || d == CanTrack
}

// DependencyType classifies a declared step dependency. Only step references
// are mechanically enforced; the rest inform human judgment during
// authorization.
type DependencyType string

const (
	DepStepReference DependencyType = "step_reference"
	DepCredential    DependencyType = "credential"
	DepDocument      DependencyType = "document"
	DepExternalParty DependencyType = "external_party"
	DepInformation   DependencyType = "information"
)

// DateProvenance records how a dated item entered the task.
type DateProvenance string

const (
	DateStated   DateProvenance = "stated"
	DateInferred DateProvenance = "inferred"
	DateUnknown  DateProvenance = "unknown"
)

var validProvenances = map[DateProvenance]bool{
	DateStated:   true,
	DateInferred: true,
	DateUnknown:  true,
}

// IsValid returns true if the provenance is recognized.
func (p DateProvenance) IsValid() bool {
	return validProvenances[p]
}

// EffortLabel is a coarse effort estimate attached to steps and plans.
type EffortLabel string

const (
	EffortMinutes EffortLabel = "minutes"
	EffortHours   EffortLabel = "hours"
	EffortDays    EffortLabel = "days"
)

// ArtifactKind classifies a persisted execution byproduct.
type ArtifactKind string

const (
	ArtifactDraft    ArtifactKind = "draft"
	ArtifactDocument ArtifactKind = "document"
	ArtifactForm     ArtifactKind = "form"
)

// ExecutionLog actor values.
const (
	ActorUser   = "user"
	ActorSystem = "system"
)
