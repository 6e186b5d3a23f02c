package directory

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/workflow"
)

func testUsers() []User {
	return []User{
		{ID: "alice", Name: "Alice", Email: "alice@example.com",
			Levels: []workflow.Level{workflow.LevelFinanceVetting}, Entities: []string{"ENT-01"}},
		{ID: "bhavin", Name: "Bhavin", Email: "bhavin@example.com",
			Levels: []workflow.Level{workflow.LevelFinanceVetting, workflow.LevelFinancePlanner}, Entities: []string{"ENT-02"}},
		{ID: "chitra", Name: "Chitra", Email: "chitra@example.com",
			Levels: []workflow.Level{workflow.LevelFinanceController}, Entities: []string{"ENT-01"}, CanDisburse: true},
		{ID: "dev", Name: "Dev", Email: "dev@example.com",
			Levels: []workflow.Level{workflow.LevelDirector}},
		{ID: "meera", Name: "Meera", Email: "meera@example.com",
			Levels: []workflow.Level{workflow.LevelMD}, Admin: true},
	}
}

func newTestDirectory(t *testing.T) *StaticDirectory {
	t.Helper()
	dir, err := NewStaticDirectory(testUsers())
	if err != nil {
		t.Fatalf("NewStaticDirectory() unexpected error: %v", err)
	}
	return dir
}

func TestNewStaticDirectory_Validation(t *testing.T) {
	if _, err := NewStaticDirectory([]User{{Name: "no id"}}); err == nil {
		t.Error("NewStaticDirectory() accepted a user with empty ID")
	}

	dup := []User{{ID: "alice"}, {ID: "alice"}}
	if _, err := NewStaticDirectory(dup); err == nil {
		t.Error("NewStaticDirectory() accepted duplicate user IDs")
	}
}

func TestStaticDirectory_ApproversForLevel(t *testing.T) {
	dir := newTestDirectory(t)

	tests := []struct {
		name     string
		level    workflow.Level
		entityID string
		want     []string
	}{
		{"entity-scoped vetting", workflow.LevelFinanceVetting, "ENT-01", []string{"alice"}},
		{"other entity vetting", workflow.LevelFinanceVetting, "ENT-02", []string{"bhavin"}},
		{"unrestricted director covers any entity", workflow.LevelDirector, "ENT-99", []string{"dev"}},
		{"no approver for entity", workflow.LevelFinanceController, "ENT-02", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dir.ApproversForLevel(context.Background(), tt.level, tt.entityID)
			if err != nil {
				t.Fatalf("ApproversForLevel() unexpected error: %v", err)
			}
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("ApproversForLevel() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ApproversForLevel()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStaticDirectory_CanActOn(t *testing.T) {
	dir := newTestDirectory(t)

	tests := []struct {
		name   string
		userID string
		level  workflow.Level
		want   bool
	}{
		{"assigned level", "alice", workflow.LevelFinanceVetting, true},
		{"second assigned level", "bhavin", workflow.LevelFinancePlanner, true},
		{"unassigned level", "alice", workflow.LevelMD, false},
		{"unknown user", "nobody", workflow.LevelFinanceVetting, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dir.CanActOn(context.Background(), tt.userID, tt.level)
			if err != nil {
				t.Fatalf("CanActOn() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanActOn(%s, %s) = %v, want %v", tt.userID, tt.level, got, tt.want)
			}
		})
	}
}

func TestStaticDirectory_Capabilities(t *testing.T) {
	dir := newTestDirectory(t)
	ctx := context.Background()

	if can, _ := dir.CanDisburse(ctx, "chitra"); !can {
		t.Error("CanDisburse(chitra) = false, want true")
	}
	if can, _ := dir.CanDisburse(ctx, "alice"); can {
		t.Error("CanDisburse(alice) = true, want false")
	}
	if can, _ := dir.CanDisburse(ctx, "nobody"); can {
		t.Error("CanDisburse(nobody) = true, want false")
	}

	if admin, _ := dir.IsAdmin(ctx, "meera"); !admin {
		t.Error("IsAdmin(meera) = false, want true")
	}
	if admin, _ := dir.IsAdmin(ctx, "dev"); admin {
		t.Error("IsAdmin(dev) = true, want false")
	}

	admins, err := dir.Administrators(ctx)
	if err != nil {
		t.Fatalf("Administrators() unexpected error: %v", err)
	}
	if len(admins) != 1 || admins[0] != "meera" {
		t.Errorf("Administrators() = %v, want [meera]", admins)
	}
}

func TestStaticDirectory_EntityAssignments(t *testing.T) {
	dir := newTestDirectory(t)

	got, err := dir.EntityAssignments(context.Background(), "alice")
	if err != nil {
		t.Fatalf("EntityAssignments() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "ENT-01" {
		t.Errorf("EntityAssignments(alice) = %v, want [ENT-01]", got)
	}

	unrestricted, err := dir.EntityAssignments(context.Background(), "dev")
	if err != nil {
		t.Fatalf("EntityAssignments() unexpected error: %v", err)
	}
	if len(unrestricted) != 0 {
		t.Errorf("EntityAssignments(dev) = %v, want empty for unrestricted user", unrestricted)
	}

	if _, err := dir.EntityAssignments(context.Background(), "nobody"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("EntityAssignments(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestStaticDirectory_DisbursementOfficers(t *testing.T) {
	dir := newTestDirectory(t)

	got, err := dir.DisbursementOfficers(context.Background(), "ENT-01")
	if err != nil {
		t.Fatalf("DisbursementOfficers() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "chitra" {
		t.Errorf("DisbursementOfficers(ENT-01) = %v, want [chitra]", got)
	}

	none, err := dir.DisbursementOfficers(context.Background(), "ENT-02")
	if err != nil {
		t.Fatalf("DisbursementOfficers() unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("DisbursementOfficers(ENT-02) = %v, want empty", none)
	}
}

func TestStaticDirectory_EmailFor(t *testing.T) {
	dir := newTestDirectory(t)

	email, err := dir.EmailFor(context.Background(), "alice")
	if err != nil {
		t.Fatalf("EmailFor() unexpected error: %v", err)
	}
	if email != "alice@example.com" {
		t.Errorf("EmailFor(alice) = %v, want alice@example.com", email)
	}

	if _, err := dir.EmailFor(context.Background(), "nobody"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("EmailFor(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestStaticDirectory_DisplayName(t *testing.T) {
	dir := newTestDirectory(t)

	name, err := dir.DisplayName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("DisplayName() unexpected error: %v", err)
	}
	if name != "Alice" {
		t.Errorf("DisplayName(alice) = %v, want Alice", name)
	}

	if _, err := dir.DisplayName(context.Background(), "nobody"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("DisplayName(nobody) error = %v, want ErrNotFound", err)
	}
}
