package types

import "time"

// WorkdayStatus is the lifecycle state of a company workday.
type WorkdayStatus string

const (
	WorkdayIdle   WorkdayStatus = "idle"
	WorkdayActive WorkdayStatus = "active"
	WorkdayPaused WorkdayStatus = "paused"
)

// Availability describes how an employee participates in workday activation.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityFlexible  Availability = "flexible"
	AvailabilityOnCall    Availability = "on_call"
	AvailabilitySuspended Availability = "suspended"
)

// ActionKind classifies an action item.
type ActionKind string

const (
	ActionKindGoal    ActionKind = "goal"
	ActionKindProject ActionKind = "project"
	ActionKindTask    ActionKind = "task"
)

// ActionPriority is the urgency of an action item.
type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
	PriorityUrgent ActionPriority = "urgent"
)

// WorkplaceState is the root of the whole model. One instance per install,
// owned by the workplace service and persisted as a single blob.
type WorkplaceState struct {
	Companies            []Company     `json:"companies"`
	ActiveCompanyId      string        `json:"activeCompanyId,omitempty"`
	ActiveEmployeeId     string        `json:"activeEmployeeId,omitempty"`
	OwnerProfileDefaults *OwnerProfile `json:"ownerProfileDefaults,omitempty"`
}

// OwnerProfile describes the human the virtual company works for.
type OwnerProfile struct {
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type Company struct {
	Id                 string           `json:"id"`
	Name               string           `json:"name"`
	Emoji              string           `json:"emoji,omitempty"`
	Description        string           `json:"description,omitempty"`
	Vision             string           `json:"vision,omitempty"`
	Mission            string           `json:"mission,omitempty"`
	OwnerProfile       OwnerProfile     `json:"ownerProfile"`
	ExecutiveManagerId string           `json:"executiveManagerId,omitempty"`
	ActiveEmployeeId   string           `json:"activeEmployeeId,omitempty"`
	IsFavorite         bool             `json:"isFavorite"`
	Employees          []Employee       `json:"employees"`
	Departments        []Department     `json:"departments"`
	Teams              []Team           `json:"teams"`
	ActionItems        []ActionItem     `json:"actionItems"`
	ActionStatuses     []ActionStatus   `json:"actionStatuses"`
	ActionRelations    []ActionRelation `json:"actionRelations"`
	Shifts             []Shift          `json:"shifts"`
	Workday            WorkdayState     `json:"workday"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type Employee struct {
	Id                 string            `json:"id"`
	Name               string            `json:"name"`
	Role               string            `json:"role,omitempty"`
	Description        string            `json:"description,omitempty"`
	Personality        string            `json:"personality,omitempty"`
	MbtiType           string            `json:"mbtiType,omitempty"`
	PersonalityTraits  []string          `json:"personalityTraits,omitempty"`
	ProfileImageUrl    string            `json:"profileImageUrl,omitempty"`
	CustomAttributes   map[string]string `json:"customAttributes,omitempty"`
	IsExecutiveManager bool              `json:"isExecutiveManager"`
	PersonaMode        string            `json:"personaMode,omitempty"`
	DeletedAt          *time.Time        `json:"deletedAt,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// TeamLink is one open/close event in a department's team link history.
// An entry with no UnlinkedAt is the live link.
type TeamLink struct {
	TeamId     string     `json:"teamId"`
	LinkedAt   time.Time  `json:"linkedAt"`
	UnlinkedAt *time.Time `json:"unlinkedAt,omitempty"`
}

type Department struct {
	Id          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TeamLinks   []TeamLink `json:"teamLinks"`
	// TeamIds is a projection of TeamLinks entries with no UnlinkedAt.
	// Recomputed after every mutation; also accepted as legacy input from
	// blobs persisted before link history existed.
	TeamIds   []string   `json:"teamIds"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TeamMembership is one open/close event in a team's membership history.
type TeamMembership struct {
	EmployeeId string     `json:"employeeId"`
	AddedAt    time.Time  `json:"addedAt"`
	RemovedAt  *time.Time `json:"removedAt,omitempty"`
}

type Team struct {
	Id          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Memberships []TeamMembership `json:"memberships"`
	// EmployeeIds is a projection of Memberships with no RemovedAt.
	// Recomputed after every mutation; legacy blobs may carry it without
	// membership history.
	EmployeeIds []string   `json:"employeeIds"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ActionStatus struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Order      int    `json:"order"`
	Color      string `json:"color,omitempty"`
	IsTerminal bool   `json:"isTerminal"`
}

type ActionItem struct {
	Id               string         `json:"id"`
	CompanyId        string         `json:"companyId"`
	Title            string         `json:"title"`
	Kind             ActionKind     `json:"kind"`
	StatusId         string         `json:"statusId"`
	Description      string         `json:"description,omitempty"`
	OwnerEmployeeId  string         `json:"ownerEmployeeId,omitempty"`
	DueAt            *time.Time     `json:"dueAt,omitempty"`
	Priority         ActionPriority `json:"priority,omitempty"`
	CustomProperties map[string]any `json:"customProperties,omitempty"`
	RelationIds      []string       `json:"relationIds,omitempty"`
	StartCount       int            `json:"startCount"`
	LastStartedAt    *time.Time     `json:"lastStartedAt,omitempty"`
	LastStartedBy    string         `json:"lastStartedBy,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// ActionRelation links two action items (e.g. a task under a project).
type ActionRelation struct {
	Id        string    `json:"id"`
	Kind      string    `json:"kind,omitempty"`
	SourceId  string    `json:"sourceId"`
	TargetId  string    `json:"targetId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShiftRecurrence repeats a shift weekly. Weekdays use time.Weekday numbering
// (0 = Sunday).
type ShiftRecurrence struct {
	Type     string     `json:"type"` // "weekly"
	Interval int        `json:"interval"`
	Weekdays []int      `json:"weekdays"`
	Until    *time.Time `json:"until,omitempty"`
}

type Shift struct {
	Id         string           `json:"id"`
	CompanyId  string           `json:"companyId"`
	EmployeeId string           `json:"employeeId"`
	Name       string           `json:"name,omitempty"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	Recurrence *ShiftRecurrence `json:"recurrence,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// EmployeeSchedule is one employee's workday participation settings.
type EmployeeSchedule struct {
	EmployeeId        string       `json:"employeeId"`
	Availability      Availability `json:"availability"`
	Timezone          string       `json:"timezone,omitempty"`
	WeeklyHoursTarget int          `json:"weeklyHoursTarget,omitempty"`
	Workdays          []int        `json:"workdays,omitempty"`
	DailyStartMinute  int          `json:"dailyStartMinute,omitempty"`
	DailyEndMinute    int          `json:"dailyEndMinute,omitempty"`
}

// WorkdayState is the per-company activation window. Reconciled on every
// read/write path so it never drifts from the employee roster.
type WorkdayState struct {
	Status               WorkdayStatus      `json:"status"`
	StartedAt            *time.Time         `json:"startedAt,omitempty"`
	HaltedAt             *time.Time         `json:"haltedAt,omitempty"`
	AutoStartActionItems bool               `json:"autoStartActionItems"`
	ActiveEmployeeIds    []string           `json:"activeEmployeeIds"`
	BypassedEmployeeIds  []string           `json:"bypassedEmployeeIds"`
	EmployeeSchedules    []EmployeeSchedule `json:"employeeSchedules"`
	LastActivationReason string             `json:"lastActivationReason,omitempty"`
}

// ---- Command payloads ----------------------------------------------------
// One request struct per workplace command. Every command resolves to the
// full post-mutation WorkplaceState, so there are no per-command responses.

type CreateCompanyRequest struct {
	Name                  string        `json:"name"`
	Emoji                 string        `json:"emoji,omitempty"`
	Description           string        `json:"description,omitempty"`
	Vision                string        `json:"vision,omitempty"`
	Mission               string        `json:"mission,omitempty"`
	OwnerProfile          *OwnerProfile `json:"ownerProfile,omitempty"`
	RememberOwnerDefaults bool          `json:"rememberOwnerDefaults,omitempty"`
}

type UpdateCompanyRequest struct {
	CompanyId          string        `json:"companyId" path:"id"`
	Name               *string       `json:"name,omitempty"`
	Emoji              *string       `json:"emoji,omitempty"`
	Description        *string       `json:"description,omitempty"`
	Vision             *string       `json:"vision,omitempty"`
	Mission            *string       `json:"mission,omitempty"`
	OwnerProfile       *OwnerProfile `json:"ownerProfile,omitempty"`
	ExecutiveManagerId *string       `json:"executiveManagerId,omitempty"`
}

type SetActiveCompanyRequest struct {
	CompanyId string `json:"companyId" path:"id"`
}

type DeleteCompanyRequest struct {
	CompanyId string `json:"companyId" path:"id"`
}

type SetCompanyFavoriteRequest struct {
	CompanyId  string `json:"companyId" path:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

type SetOwnerProfileDefaultsRequest struct {
	Profile OwnerProfile `json:"profile"`
}

type CreateEmployeeRequest struct {
	CompanyId          string            `json:"companyId"`
	Name               string            `json:"name"`
	Role               string            `json:"role,omitempty"`
	Description        string            `json:"description,omitempty"`
	Personality        string            `json:"personality,omitempty"`
	MbtiType           string            `json:"mbtiType,omitempty"`
	PersonalityTraits  []string          `json:"personalityTraits,omitempty"`
	ProfileImageUrl    string            `json:"profileImageUrl,omitempty"`
	CustomAttributes   map[string]string `json:"customAttributes,omitempty"`
	IsExecutiveManager bool              `json:"isExecutiveManager,omitempty"`
	PersonaMode        string            `json:"personaMode,omitempty"`
}

type UpdateEmployeeRequest struct {
	CompanyId          string            `json:"companyId"`
	EmployeeId         string            `json:"employeeId" path:"id"`
	Name               *string           `json:"name,omitempty"`
	Role               *string           `json:"role,omitempty"`
	Description        *string           `json:"description,omitempty"`
	Personality        *string           `json:"personality,omitempty"`
	MbtiType           *string           `json:"mbtiType,omitempty"`
	PersonalityTraits  []string          `json:"personalityTraits,omitempty"`
	ProfileImageUrl    *string           `json:"profileImageUrl,omitempty"`
	CustomAttributes   map[string]string `json:"customAttributes,omitempty"`
	IsExecutiveManager *bool             `json:"isExecutiveManager,omitempty"`
	PersonaMode        *string           `json:"personaMode,omitempty"`
}

type ArchiveEmployeeRequest struct {
	CompanyId  string `json:"companyId"`
	EmployeeId string `json:"employeeId" path:"id"`
}

type SetActiveEmployeeRequest struct {
	CompanyId  string `json:"companyId"`
	EmployeeId string `json:"employeeId" path:"id"`
}

type CreateDepartmentRequest struct {
	CompanyId   string `json:"companyId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateDepartmentRequest struct {
	CompanyId    string  `json:"companyId"`
	DepartmentId string  `json:"departmentId" path:"id"`
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
}

type ArchiveDepartmentRequest struct {
	CompanyId    string `json:"companyId"`
	DepartmentId string `json:"departmentId" path:"id"`
}

type CreateTeamRequest struct {
	CompanyId    string `json:"companyId"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DepartmentId string `json:"departmentId,omitempty"`
}

type UpdateTeamRequest struct {
	CompanyId   string  `json:"companyId"`
	TeamId      string  `json:"teamId" path:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ArchiveTeamRequest struct {
	CompanyId string `json:"companyId"`
	TeamId    string `json:"teamId" path:"id"`
}

type AssignTeamToDepartmentRequest struct {
	CompanyId    string `json:"companyId"`
	TeamId       string `json:"teamId"`
	DepartmentId string `json:"departmentId"`
}

type RemoveTeamFromDepartmentRequest struct {
	CompanyId    string `json:"companyId"`
	TeamId       string `json:"teamId"`
	DepartmentId string `json:"departmentId"`
}

type AssignEmployeeToTeamRequest struct {
	CompanyId  string `json:"companyId"`
	TeamId     string `json:"teamId"`
	EmployeeId string `json:"employeeId"`
}

type RemoveEmployeeFromTeamRequest struct {
	CompanyId  string `json:"companyId"`
	TeamId     string `json:"teamId"`
	EmployeeId string `json:"employeeId"`
}

type CreateActionItemRequest struct {
	CompanyId        string         `json:"companyId"`
	Title            string         `json:"title"`
	Kind             ActionKind     `json:"kind,omitempty"`
	StatusId         string         `json:"statusId,omitempty"`
	Description      string         `json:"description,omitempty"`
	OwnerEmployeeId  string         `json:"ownerEmployeeId,omitempty"`
	DueAt            *time.Time     `json:"dueAt,omitempty"`
	Priority         ActionPriority `json:"priority,omitempty"`
	CustomProperties map[string]any `json:"customProperties,omitempty"`
}

type UpdateActionItemRequest struct {
	CompanyId        string          `json:"companyId"`
	ActionItemId     string          `json:"actionItemId" path:"id"`
	Title            *string         `json:"title,omitempty"`
	Kind             *ActionKind     `json:"kind,omitempty"`
	StatusId         *string         `json:"statusId,omitempty"`
	Description      *string         `json:"description,omitempty"`
	OwnerEmployeeId  *string         `json:"ownerEmployeeId,omitempty"`
	DueAt            *time.Time      `json:"dueAt,omitempty"`
	ClearDueAt       bool            `json:"clearDueAt,omitempty"`
	Priority         *ActionPriority `json:"priority,omitempty"`
	CustomProperties map[string]any  `json:"customProperties,omitempty"`
}

type DeleteActionItemRequest struct {
	CompanyId    string `json:"companyId"`
	ActionItemId string `json:"actionItemId" path:"id"`
}

// StartActionItemsRequest advances action items into the in-progress status.
// Scope is one of "company", "employee" (requires EmployeeId) or "selection"
// (requires ActionItemIds).
type StartActionItemsRequest struct {
	CompanyId     string   `json:"companyId"`
	Scope         string   `json:"scope"`
	EmployeeId    string   `json:"employeeId,omitempty"`
	ActionItemIds []string `json:"actionItemIds,omitempty"`
	InitiatedBy   string   `json:"initiatedBy,omitempty"`
}

type CreateActionStatusRequest struct {
	CompanyId  string `json:"companyId"`
	Name       string `json:"name"`
	Order      *int   `json:"order,omitempty"`
	Color      string `json:"color,omitempty"`
	IsTerminal bool   `json:"isTerminal,omitempty"`
}

// UpsertActionStatusRequest updates a status by id, or by case-insensitive
// name match when StatusId is empty, creating it when neither matches.
type UpsertActionStatusRequest struct {
	CompanyId  string  `json:"companyId"`
	StatusId   string  `json:"statusId,omitempty"`
	Name       string  `json:"name"`
	Order      *int    `json:"order,omitempty"`
	Color      *string `json:"color,omitempty"`
	IsTerminal *bool   `json:"isTerminal,omitempty"`
}

type StartWorkdayRequest struct {
	CompanyId            string   `json:"companyId"`
	EmployeeIds          []string `json:"employeeIds,omitempty"`
	Reason               string   `json:"reason,omitempty"`
	InitiatedBy          string   `json:"initiatedBy,omitempty"`
	AutoStartActionItems *bool    `json:"autoStartActionItems,omitempty"`
}

type HaltWorkdayRequest struct {
	CompanyId              string `json:"companyId"`
	Reason                 string `json:"reason,omitempty"`
	SuspendActiveEmployees bool   `json:"suspendActiveEmployees,omitempty"`
}

type UpdateEmployeeScheduleRequest struct {
	CompanyId         string        `json:"companyId"`
	EmployeeId        string        `json:"employeeId"`
	Availability      *Availability `json:"availability,omitempty"`
	Timezone          *string       `json:"timezone,omitempty"`
	WeeklyHoursTarget *int          `json:"weeklyHoursTarget,omitempty"`
	Workdays          []int         `json:"workdays,omitempty"`
	DailyStartMinute  *int          `json:"dailyStartMinute,omitempty"`
	DailyEndMinute    *int          `json:"dailyEndMinute,omitempty"`
}

type CreateShiftRequest struct {
	CompanyId  string           `json:"companyId"`
	EmployeeId string           `json:"employeeId"`
	Name       string           `json:"name,omitempty"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	Recurrence *ShiftRecurrence `json:"recurrence,omitempty"`
}

type UpdateShiftRequest struct {
	CompanyId       string           `json:"companyId"`
	ShiftId         string           `json:"shiftId" path:"id"`
	EmployeeId      *string          `json:"employeeId,omitempty"`
	Name            *string          `json:"name,omitempty"`
	Start           *time.Time       `json:"start,omitempty"`
	End             *time.Time       `json:"end,omitempty"`
	Recurrence      *ShiftRecurrence `json:"recurrence,omitempty"`
	ClearRecurrence bool             `json:"clearRecurrence,omitempty"`
}

type DeleteShiftRequest struct {
	CompanyId string `json:"companyId"`
	ShiftId   string `json:"shiftId" path:"id"`
}
