package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/pkg/apperr"
)

// -- Mock Repository --

type mockUserRepo struct {
	store map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.store[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFoundf("user")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFoundf("user")
}

func (m *mockUserRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	var r []*User
	for _, u := range m.store {
		if role, ok := params["role"]; ok && u.Role != role {
			continue
		}
		r = append(r, u)
	}
	return r, len(r), nil
}

func (m *mockUserRepo) SetSupervisingNurse(_ context.Context, caregiverID uuid.UUID, nurseID *uuid.UUID) error {
	u, ok := m.store[caregiverID]
	if !ok || u.Role != RoleCaregiver {
		return apperr.NotFoundf("caregiver")
	}
	u.SupervisingNurseID = nurseID
	return nil
}

func (m *mockUserRepo) Summaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]Summary, error) {
	out := make(map[uuid.UUID]Summary)
	for _, id := range ids {
		if u, ok := m.store[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func newTestService() (*Service, *mockUserRepo) {
	repo := newMockUserRepo()
	return NewService(repo), repo
}

// -- Service Tests --

func TestCreateUser_Success(t *testing.T) {
	svc, _ := newTestService()
	u := &User{Email: "nurse@stmarys.example", FullName: "Dana Reyes", Role: RoleNurse}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreateUser_MissingEmail(t *testing.T) {
	svc, _ := newTestService()
	u := &User{FullName: "Dana Reyes", Role: RoleNurse}
	if err := svc.CreateUser(context.Background(), u); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestCreateUser_InvalidRole(t *testing.T) {
	svc, _ := newTestService()
	u := &User{Email: "x@example.com", FullName: "X", Role: "doctor"}
	if err := svc.CreateUser(context.Background(), u); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestCreateUser_AllRolesValid(t *testing.T) {
	for _, role := range []string{RoleSuperAdmin, RoleHospital, RoleNurse, RoleCaregiver, RoleFamily, RolePatient} {
		svc, _ := newTestService()
		u := &User{Email: role + "@example.com", FullName: "U", Role: role}
		if err := svc.CreateUser(context.Background(), u); err != nil {
			t.Errorf("role %q should be valid: %v", role, err)
		}
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetUser(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSetSupervisingNurse(t *testing.T) {
	svc, repo := newTestService()
	cg := &User{Email: "cg@example.com", FullName: "CG", Role: RoleCaregiver}
	svc.CreateUser(context.Background(), cg)
	nurseID := uuid.New()

	if err := svc.SetSupervisingNurse(context.Background(), cg.ID, &nurseID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.store[cg.ID].SupervisingNurseID == nil || *repo.store[cg.ID].SupervisingNurseID != nurseID {
		t.Error("supervising nurse not set")
	}

	if err := svc.SetSupervisingNurse(context.Background(), cg.ID, nil); err != nil {
		t.Fatalf("unexpected error clearing: %v", err)
	}
	if repo.store[cg.ID].SupervisingNurseID != nil {
		t.Error("supervising nurse not cleared")
	}
}

func TestSetSupervisingNurse_NotACaregiver(t *testing.T) {
	svc, _ := newTestService()
	nurse := &User{Email: "n@example.com", FullName: "N", Role: RoleNurse}
	svc.CreateUser(context.Background(), nurse)
	other := uuid.New()
	if err := svc.SetSupervisingNurse(context.Background(), nurse.ID, &other); err == nil {
		t.Fatal("expected error when target is not a caregiver")
	}
}

func TestSummaries_OmitsUnknown(t *testing.T) {
	svc, _ := newTestService()
	u := &User{Email: "a@example.com", FullName: "A", Role: RoleNurse}
	svc.CreateUser(context.Background(), u)

	got, err := svc.Summaries(context.Background(), []uuid.UUID{u.ID, uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(got))
	}
	if got[u.ID].FullName != "A" {
		t.Errorf("unexpected summary: %+v", got[u.ID])
	}
}
