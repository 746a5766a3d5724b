package models

import (
	"gorm.io/gorm"
)

// Role determines what a user may do with events. Checks go through the
// capability methods below, never through direct string comparison.
type Role string

const (
	RoleUser       Role = "user"
	RoleApprover   Role = "approver"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// CanSubmitDraft reports whether the role submits drafts into the approval
// queue. Reviewer roles skip the queue and publish directly instead.
func (r Role) CanSubmitDraft() bool {
	return r == RoleUser
}

func (r Role) CanPublishDirectly() bool {
	return r == RoleApprover || r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) CanApprove() bool {
	return r == RoleApprover || r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) CanCancelAnyEvent() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) CanManageUsers() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex"`
	Username  string
	Email     string
	Avatar    string
	Role      Role   `gorm:"type:varchar(20);default:'user'"`
	Category  string `gorm:"type:varchar(50)"`
}
