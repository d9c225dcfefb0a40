package models

// StatusUpdate is the full patch sent to the Order Store when a transition
// is committed.
type StatusUpdate struct {
	CurrentStatus    OrderStatus `json:"current_status"`
	AssignedEmployee string      `json:"assigned_employee"`
	ColourCode       string      `json:"colour_code"`
}

// Apply returns a copy of order with the patched fields set. Every other
// field is left untouched.
func (u StatusUpdate) Apply(order Order) Order {
	order.CurrentStatus = u.CurrentStatus
	order.AssignedEmployee = u.AssignedEmployee
	order.ColourCode = u.ColourCode
	return order
}

// StatusPatch is the PUT body understood by the Order Store. Role travels
// with the patch so the store can enforce admin-only completion on its side.
type StatusPatch struct {
	CurrentStatus    OrderStatus `json:"current_status" binding:"required"`
	AssignedEmployee *string     `json:"assigned_employee,omitempty"`
	ColourCode       *string     `json:"colour_code,omitempty"`
	Role             Role        `json:"role"`
}

func (u StatusUpdate) Patch(role Role) StatusPatch {
	employee := u.AssignedEmployee
	colour := u.ColourCode
	return StatusPatch{
		CurrentStatus:    u.CurrentStatus,
		AssignedEmployee: &employee,
		ColourCode:       &colour,
		Role:             role,
	}
}
