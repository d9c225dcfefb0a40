package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/paint-queue/models"
)

// EmployeeResolver turns an employee code into a name. Implementations
// return ErrEmployeeNotFound when the code is unknown.
type EmployeeResolver interface {
	LookupEmployee(ctx context.Context, code string) (string, error)
}

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusWaiting:  {models.StatusMixing},
	models.StatusMixing:   {models.StatusSpraying},
	models.StatusSpraying: {models.StatusReMixing, models.StatusReady},
	models.StatusReMixing: {models.StatusSpraying},
	models.StatusReady:    {models.StatusComplete},
	models.StatusComplete: nil,
}

// TransitionRequest is what the operator supplied for a status change.
type TransitionRequest struct {
	Target       models.OrderStatus
	Role         models.Role
	EmployeeCode string
	ColourCode   string
}

// Requirements lists the side data a transition needs before it can be committed.
type Requirements struct {
	Target         models.OrderStatus `json:"target"`
	NeedsEmployee  bool               `json:"needs_employee"`
	NeedsColour    bool               `json:"needs_colour_code"`
	AdminOnly      bool               `json:"admin_only"`
	AllowedForRole bool               `json:"allowed_for_role"`
}

// Workflow gates status changes. It holds no state of its own; employee
// codes are resolved through the injected resolver.
type Workflow struct {
	Employees EmployeeResolver
}

func NewWorkflow(employees EmployeeResolver) *Workflow {
	return &Workflow{Employees: employees}
}

// Next returns every status reachable from current, regardless of role.
func Next(current models.OrderStatus) []models.OrderStatus {
	next := transitions[current]
	out := make([]models.OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether target is in the allowed set for current.
func CanTransition(current, target models.OrderStatus) bool {
	for _, s := range transitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses that may be offered to role.
// Completion is only offered to admins.
func (w *Workflow) AllowedTransitions(current models.OrderStatus, role models.Role) []models.OrderStatus {
	var out []models.OrderStatus
	for _, s := range transitions[current] {
		if s == models.StatusComplete && role != models.RoleAdmin {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RequirementsFor describes what must be collected to move order to target.
func (w *Workflow) RequirementsFor(order models.Order, target models.OrderStatus, role models.Role) Requirements {
	return Requirements{
		Target:         target,
		NeedsEmployee:  target.IsWorkStatus(),
		NeedsColour:    target == models.StatusReady && !order.ColourCodeKnown(),
		AdminOnly:      target == models.StatusComplete,
		AllowedForRole: target != models.StatusComplete || role == models.RoleAdmin,
	}
}

// AttemptTransition validates a status change and builds the patch to send
// to the Order Store. Local checks run first, so a rejected request never
// reaches the store. On error the returned update is the zero value.
func (w *Workflow) AttemptTransition(ctx context.Context, order models.Order, req TransitionRequest) (models.StatusUpdate, error) {
	current := order.CurrentStatus
	if !CanTransition(current, req.Target) {
		if current == models.StatusComplete {
			return models.StatusUpdate{}, newWorkflowError(ErrInvalidTransition,
				"order %s is already Complete", order.TransactionID)
		}
		return models.StatusUpdate{}, newWorkflowError(ErrInvalidTransition,
			"cannot move order %s from %s to %s", order.TransactionID, current, req.Target)
	}

	if req.Target == models.StatusComplete && req.Role != models.RoleAdmin {
		return models.StatusUpdate{}, ErrForbidden
	}

	colour := order.ColourCode
	if req.Target == models.StatusReady && !order.ColourCodeKnown() {
		supplied := strings.TrimSpace(req.ColourCode)
		if supplied == "" || supplied == models.ColourCodePending {
			return models.StatusUpdate{}, ErrMissingColourCode
		}
		colour = supplied
	}

	employee := order.AssignedEmployee
	if employee == "" {
		employee = models.Unassigned
	}
	if req.Target.IsWorkStatus() {
		code := strings.TrimSpace(req.EmployeeCode)
		if code == "" {
			return models.StatusUpdate{}, ErrMissingEmployee
		}
		name, err := w.resolveEmployee(ctx, code)
		if err != nil {
			return models.StatusUpdate{}, err
		}
		employee = name
	}

	return models.StatusUpdate{
		CurrentStatus:    req.Target,
		AssignedEmployee: employee,
		ColourCode:       colour,
	}, nil
}

func (w *Workflow) resolveEmployee(ctx context.Context, code string) (string, error) {
	if w.Employees == nil {
		return "", storeUnavailable(errors.New("no employee directory configured"))
	}
	name, err := w.Employees.LookupEmployee(ctx, code)
	switch {
	case errors.Is(err, ErrEmployeeNotFound):
		return "", newWorkflowError(ErrUnresolvedEmployee, "invalid employee code %q, try again", code)
	case errors.Is(err, ErrStoreUnavailable):
		return "", err
	case err != nil:
		return "", storeUnavailable(err)
	case strings.TrimSpace(name) == "":
		return "", newWorkflowError(ErrUnresolvedEmployee, "invalid employee code %q, try again", code)
	}
	return name, nil
}
