package auth

// Requirement is the set of roles an operation accepts. A nil or empty
// requirement admits any authenticated principal.
type Requirement []Role

// Operation names used as keys into the policy table.
const (
	OpTaskList   = "tasks.list"
	OpTaskGet    = "tasks.get"
	OpTaskCreate = "tasks.create"
	OpTaskUpdate = "tasks.update"
	OpTaskDelete = "tasks.delete"
)

// OperationRoles maps each operation to its required role set. The table is
// consulted before dispatch, so a forbidden caller is rejected even for
// resources that do not exist.
var OperationRoles = map[string]Requirement{
	OpTaskList:   nil,
	OpTaskGet:    nil,
	OpTaskCreate: {RoleOwner, RoleAdmin},
	OpTaskUpdate: {RoleOwner, RoleAdmin},
	OpTaskDelete: {RoleOwner, RoleAdmin},
}

// RequiredRoles returns the requirement declared for an operation.
func RequiredRoles(op string) Requirement {
	return OperationRoles[op]
}

// Authorize allows the principal when the requirement is empty or contains
// the principal's role. It is pure: no storage, no side effects.
func Authorize(p Principal, required Requirement) error {
	if len(required) == 0 {
		return nil
	}
	for _, role := range required {
		if p.Role == role {
			return nil
		}
	}
	return ErrDenied
}
