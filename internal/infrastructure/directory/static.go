package directory

import (
	"context"
	"fmt"

	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/workflow"
)

// User is one directory entry. A user with an empty Entities list is
// unrestricted and acts for every entity.
type User struct {
	ID          string
	Name        string
	Email       string
	Levels      []workflow.Level
	Entities    []string
	CanDisburse bool
	Admin       bool
}

// StaticDirectory implements port.Directory from a fixed user table, loaded
// from configuration at startup. Swapping in an LDAP or HR-system backed
// implementation only requires satisfying the same port.
type StaticDirectory struct {
	users map[string]User
}

// NewStaticDirectory builds a directory from the given users. Duplicate IDs
// are rejected.
func NewStaticDirectory(users []User) (*StaticDirectory, error) {
	byID := make(map[string]User, len(users))
	for _, u := range users {
		if u.ID == "" {
			return nil, fmt.Errorf("directory user with empty id")
		}
		if _, ok := byID[u.ID]; ok {
			return nil, fmt.Errorf("duplicate directory user %q", u.ID)
		}
		byID[u.ID] = u
	}
	return &StaticDirectory{users: byID}, nil
}

// ApproversForLevel returns the users that may act on the level for the entity.
func (d *StaticDirectory) ApproversForLevel(_ context.Context, level workflow.Level, entityID string) ([]string, error) {
	var ids []string
	for _, u := range d.users {
		if u.hasLevel(level) && u.coversEntity(entityID) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// CanActOn reports whether the user may decide at the level.
func (d *StaticDirectory) CanActOn(_ context.Context, userID string, level workflow.Level) (bool, error) {
	u, ok := d.users[userID]
	if !ok {
		return false, nil
	}
	return u.hasLevel(level), nil
}

// CanDisburse reports whether the user holds the disbursement capability.
func (d *StaticDirectory) CanDisburse(_ context.Context, userID string) (bool, error) {
	return d.users[userID].CanDisburse, nil
}

// IsAdmin reports whether the user is an administrator.
func (d *StaticDirectory) IsAdmin(_ context.Context, userID string) (bool, error) {
	return d.users[userID].Admin, nil
}

// EntityAssignments returns the entity IDs the user is assigned to. Empty
// means unrestricted.
func (d *StaticDirectory) EntityAssignments(_ context.Context, userID string) ([]string, error) {
	u, ok := d.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: directory user %s", port.ErrNotFound, userID)
	}
	return u.Entities, nil
}

// DisbursementOfficers returns the users able to disburse for the entity.
func (d *StaticDirectory) DisbursementOfficers(_ context.Context, entityID string) ([]string, error) {
	var ids []string
	for _, u := range d.users {
		if u.CanDisburse && u.coversEntity(entityID) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// Administrators returns all administrator user IDs.
func (d *StaticDirectory) Administrators(_ context.Context) ([]string, error) {
	var ids []string
	for _, u := range d.users {
		if u.Admin {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// DisplayName resolves a user ID to the name recorded on audit trails.
func (d *StaticDirectory) DisplayName(_ context.Context, userID string) (string, error) {
	u, ok := d.users[userID]
	if !ok {
		return "", fmt.Errorf("%w: directory user %s", port.ErrNotFound, userID)
	}
	return u.Name, nil
}

// EmailFor resolves a user ID to the address alerts are delivered to.
func (d *StaticDirectory) EmailFor(_ context.Context, userID string) (string, error) {
	u, ok := d.users[userID]
	if !ok {
		return "", fmt.Errorf("%w: directory user %s", port.ErrNotFound, userID)
	}
	return u.Email, nil
}

func (u User) hasLevel(level workflow.Level) bool {
	for _, l := range u.Levels {
		if l == level {
			return true
		}
	}
	return false
}

func (u User) coversEntity(entityID string) bool {
	if len(u.Entities) == 0 {
		return true
	}
	for _, e := range u.Entities {
		if e == entityID {
			return true
		}
	}
	return false
}

// Verify interface compliance
var _ port.Directory = (*StaticDirectory)(nil)
