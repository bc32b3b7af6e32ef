// Package policy decides whether the current user may mutate a resource.
package policy

import "go-clinic-panel/internal/models"

// openKinds can be mutated by any caller. Visits have always been recorded by whoever is
// at the front desk, so they carry no permission of their own.
var openKinds = map[models.Kind]bool{
	models.KindVisit: true,
}

// Allow is the single permission check for every mutating call.
func Allow(user *models.User, action models.Action, kind models.Kind) bool {
	if openKinds[kind] {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsAdmin {
		return true
	}
	return user.HasPermission(models.PermissionFor(action, kind))
}
