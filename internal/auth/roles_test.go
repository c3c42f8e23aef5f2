package auth

import (
	"errors"
	"testing"
)

func TestAuthorizeCreation_Matrix(t *testing.T) {
	h := DefaultHierarchy()

	cases := []struct {
		creator string
		target  string
		allow   bool
	}{
		{RoleMasterAdmin, RoleSuperAdmin, true},
		{RoleMasterAdmin, RoleAgent, true},
		{RoleMasterAdmin, RoleVoter, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleMasterAdmin, false},
		{RoleAdmin, RoleSuperAgent, true},
		{RoleAdmin, RoleAgent, true},
		{RoleAdmin, RoleVoter, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleSuperAgent, RoleAgent, true},
		{RoleSuperAgent, RoleVoter, false},
		{RoleAgent, RoleAgent, false},
		{RoleAgent, RoleVoter, false},
		{RoleVoter, RoleVoter, false},
	}

	for _, tc := range cases {
		err := h.AuthorizeCreation(tc.creator, tc.target)
		if tc.allow && err != nil {
			t.Errorf("AuthorizeCreation(%s, %s) = %v, want allow", tc.creator, tc.target, err)
		}
		if !tc.allow && !errors.Is(err, ErrForbidden) {
			t.Errorf("AuthorizeCreation(%s, %s) = %v, want ErrForbidden", tc.creator, tc.target, err)
		}
	}
}

func TestAuthorizeCreation_NeverAboveOwnAuthority(t *testing.T) {
	h := DefaultHierarchy()

	// For every pair where the target ranks at or above the creator, the
	// decision must be Forbidden.
	for _, creator := range h.Roles() {
		for _, target := range h.Roles() {
			if target.Hierarchy > creator.Hierarchy {
				continue
			}
			if err := h.AuthorizeCreation(creator.Name, target.Name); !errors.Is(err, ErrForbidden) {
				t.Errorf("creator %s (rank %d) may create %s (rank %d)",
					creator.Name, creator.Hierarchy, target.Name, target.Hierarchy)
			}
		}
	}
}

func TestAuthorizeCreation_CaseInsensitiveTarget(t *testing.T) {
	h := DefaultHierarchy()
	if err := h.AuthorizeCreation(RoleAdmin, "Agent"); err != nil {
		t.Errorf("mixed-case target should be allowed: %v", err)
	}
	if err := h.AuthorizeCreation(RoleAdmin, "AGENT"); err != nil {
		t.Errorf("upper-case target should be allowed: %v", err)
	}
}

func TestAuthorizeCreation_UnknownRolesFailClosed(t *testing.T) {
	h := DefaultHierarchy()
	if err := h.AuthorizeCreation(RoleMasterAdmin, "observer"); !errors.Is(err, ErrForbidden) {
		t.Errorf("unknown target: err = %v, want ErrForbidden", err)
	}
	if err := h.AuthorizeCreation("observer", RoleAgent); !errors.Is(err, ErrForbidden) {
		t.Errorf("unknown creator: err = %v, want ErrForbidden", err)
	}
	if err := h.AuthorizeCreation("", RoleAgent); !errors.Is(err, ErrForbidden) {
		t.Errorf("empty creator: err = %v, want ErrForbidden", err)
	}
}

func TestAuthority(t *testing.T) {
	h := DefaultHierarchy()
	rank, ok := h.Authority(RoleMasterAdmin)
	if !ok || rank != 0 {
		t.Errorf("Authority(master_admin) = %d, %v", rank, ok)
	}
	if _, ok := h.Authority("nope"); ok {
		t.Error("Authority should report unknown roles")
	}
}
