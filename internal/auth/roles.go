package auth

import "strings"

// Role names. These are the canonical lowercase forms stored in the roles
// table and embedded in token claims.
const (
	RoleMasterAdmin = "master_admin"
	RoleSuperAdmin  = "super_admin"
	RoleAdmin       = "admin"
	RoleSuperAgent  = "super_agent"
	RoleAgent       = "agent"
	RoleVoter       = "voter"
)

// RoleDef describes one role: its rank (lower = more authority) and the set
// of roles a holder may provision.
type RoleDef struct {
	Name       string
	Hierarchy  int
	Provisions []string
}

// Hierarchy is the static ranked role table. Built once at startup and
// shared read-only; it is the single source of truth for provisioning
// authority.
type Hierarchy struct {
	defs   []RoleDef
	byName map[string]RoleDef
}

// NewHierarchy builds a Hierarchy from role definitions.
func NewHierarchy(defs []RoleDef) *Hierarchy {
	h := &Hierarchy{
		defs:   defs,
		byName: make(map[string]RoleDef, len(defs)),
	}
	for _, d := range defs {
		h.byName[d.Name] = d
	}
	return h
}

// DefaultHierarchy returns the election-operations role table.
func DefaultHierarchy() *Hierarchy {
	return NewHierarchy([]RoleDef{
		{RoleMasterAdmin, 0, []string{RoleSuperAdmin, RoleAdmin, RoleSuperAgent, RoleAgent, RoleVoter}},
		{RoleSuperAdmin, 1, []string{RoleAdmin, RoleSuperAgent, RoleAgent, RoleVoter}},
		{RoleAdmin, 2, []string{RoleSuperAgent, RoleAgent, RoleVoter}},
		{RoleSuperAgent, 3, []string{RoleAgent}},
		{RoleAgent, 4, nil},
		{RoleVoter, 5, nil},
	})
}

// Roles returns the definitions in declaration order.
func (h *Hierarchy) Roles() []RoleDef {
	return h.defs
}

// Authority reports the hierarchy rank of a role.
func (h *Hierarchy) Authority(role string) (int, bool) {
	d, ok := h.byName[role]
	return d.Hierarchy, ok
}

// AuthorizeCreation gates provisioning: the creator may only create roles
// listed in its provisionable set. Target matching is case-insensitive;
// unknown creator or target roles fail closed with ErrForbidden.
func (h *Hierarchy) AuthorizeCreation(creatorRole, targetRole string) error {
	creator, ok := h.byName[creatorRole]
	if !ok {
		return ErrForbidden
	}
	target := strings.ToLower(targetRole)
	for _, p := range creator.Provisions {
		if p == target {
			return nil
		}
	}
	return ErrForbidden
}
