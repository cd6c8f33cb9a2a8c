package auth

import "context"

// PermissionSet answers permission checks from the static role table.
type PermissionSet struct {
	roles map[string]map[string]struct{}
}

func NewPermissionSet(table map[string][]string) *PermissionSet {
	roles := make(map[string]map[string]struct{}, len(table))
	for role, perms := range table {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		roles[role] = set
	}
	return &PermissionSet{roles: roles}
}

func (p *PermissionSet) HasPermission(_ context.Context, role, permission string) (bool, error) {
	_, ok := p.roles[role][permission]
	return ok, nil
}

func (p *PermissionSet) Permissions(role string) []string {
	out := make([]string, 0, len(p.roles[role]))
	for _, perm := range DefaultPermissions {
		if _, ok := p.roles[role][perm]; ok {
			out = append(out, perm)
		}
	}
	return out
}
