// Package engine holds the authorization and lifecycle rules for tasks and
// users. Every function is a pure decision over (actor, target, requested
// change); callers load the entities, ask the engine, then perform the write.
package engine

import (
	"time"

	"github.com/gofrs/uuid"

	"taskforge/backend/internal/models"
)

// Actor is the authenticated user a request runs as.
type Actor struct {
	ID             uuid.UUID
	Role           models.Role
	OrganizationID uuid.UUID
}

func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, OrganizationID: u.OrganizationID}
}

// Decision is the engine's answer for one intended mutation.
type Decision struct {
	Allowed bool
	Err     *Error
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(err *Error) Decision {
	return Decision{Err: err}
}

// CanListAllTasks reports whether the actor sees every task in the
// organization. Members are restricted to their assigned tasks at query time,
// not by filtering a loaded result set.
func CanListAllTasks(actor Actor) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleLeader:
		return true
	case models.RoleMember:
		return false
	}
	return false
}

func CanCreateTask(actor Actor) Decision {
	switch actor.Role {
	case models.RoleAdmin, models.RoleLeader:
		return allow()
	case models.RoleMember:
		return deny(Forbidden("Members cannot create tasks"))
	}
	return deny(Forbidden("Unknown role"))
}

// CanUpdateTask decides a task update. fields is the set of JSON keys present
// in the request body: members assigned to the task may send exactly
// {"status"}, and any other key is rejected rather than ignored.
func CanUpdateTask(actor Actor, task *models.Task, fields []string) Decision {
	if task.OrganizationID != actor.OrganizationID {
		// Cross-tenant targets look identical to missing ones.
		return deny(NotFound("Task not found"))
	}

	switch actor.Role {
	case models.RoleAdmin, models.RoleLeader:
		return allow()
	case models.RoleMember:
		if task.AssignedUserID == nil || *task.AssignedUserID != actor.ID {
			return deny(Forbidden("Members can only update assigned tasks"))
		}
		for _, f := range fields {
			if f != "status" {
				return deny(Forbidden("Members may only update status"))
			}
		}
		return allow()
	}
	return deny(Forbidden("Unknown role"))
}

func CanDeleteTask(actor Actor, task *models.Task) Decision {
	if task.OrganizationID != actor.OrganizationID {
		return deny(NotFound("Task not found"))
	}

	switch actor.Role {
	case models.RoleAdmin:
		return allow()
	case models.RoleLeader:
		if task.Status == models.StatusCompleted {
			return deny(Forbidden("Leaders cannot delete completed tasks. Please contact an Admin."))
		}
		return allow()
	case models.RoleMember:
		return deny(Forbidden("Members cannot delete tasks"))
	}
	return deny(Forbidden("Unknown role"))
}

// CompletionTimestamp derives the task's completedAt for a status change.
// Entering Completed stamps now, leaving Completed clears it, and any other
// transition keeps the previous value. All status jumps are legal, including
// reopening a completed task.
func CompletionTimestamp(prev, next models.Status, prevCompletedAt *time.Time, now time.Time) *time.Time {
	if next == models.StatusCompleted && prev != models.StatusCompleted {
		return &now
	}
	if next != models.StatusCompleted && prev == models.StatusCompleted {
		return nil
	}
	return prevCompletedAt
}

// CanManageUsers gates every user-management operation: only Admins may
// invite, update, delete, or transfer ownership.
func CanManageUsers(actor Actor) Decision {
	switch actor.Role {
	case models.RoleAdmin:
		return allow()
	case models.RoleLeader, models.RoleMember:
		return deny(Forbidden("Only Admins can manage users"))
	}
	return deny(Forbidden("Unknown role"))
}

// CanUpdateUser decides a name/email/role update of target. adminCount is the
// organization's current Admin count, read inside the same transaction that
// performs the write so two concurrent demotions cannot both observe two
// admins.
func CanUpdateUser(actor Actor, target *models.User, newRole *models.Role, adminCount int64) Decision {
	if d := CanManageUsers(actor); !d.Allowed {
		return d
	}
	if target.OrganizationID != actor.OrganizationID {
		return deny(Forbidden("Not authorized to update this user"))
	}
	if newRole != nil && !newRole.Valid() {
		return deny(Validation("Invalid role"))
	}
	if target.Role == models.RoleAdmin && newRole != nil && *newRole != models.RoleAdmin && adminCount <= 1 {
		return deny(LastAdmin("Cannot demote the last Admin. Please transfer ownership or assign another Admin first."))
	}
	return allow()
}

func CanDeleteUser(actor Actor, target *models.User, adminCount int64) Decision {
	if d := CanManageUsers(actor); !d.Allowed {
		return d
	}
	if target.OrganizationID != actor.OrganizationID {
		return deny(Forbidden("Not authorized to delete this user"))
	}
	if target.ID == actor.ID {
		// Rejected regardless of admin count.
		return deny(SelfDelete("You cannot delete your own account. Please transfer ownership to another member first."))
	}
	if target.Role == models.RoleAdmin && adminCount <= 1 {
		return deny(LastAdmin("Cannot delete the last Admin. Please transfer ownership or assign another Admin first."))
	}
	return allow()
}

// CanTransferOwnership decides promoting target to Admin (optionally demoting
// the actor afterwards, inside the same transaction).
func CanTransferOwnership(actor Actor, target *models.User) Decision {
	if d := CanManageUsers(actor); !d.Allowed {
		return d
	}
	if target.OrganizationID != actor.OrganizationID {
		return deny(Forbidden("Cannot transfer ownership to user from different organization"))
	}
	if target.ID == actor.ID {
		return deny(AlreadyAdmin("You are already an Admin"))
	}
	return allow()
}
