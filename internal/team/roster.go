package team

// RoleUnassigned is the bucket label for members whose membership record
// carries no role name.
const RoleUnassigned = "unassigned"

// Roster is the authoritative view of who is on a project: the project
// record itself, its membership list, and the global user directory. It is
// replaced wholesale by a reload, never patched incrementally.
type Roster struct {
	Project Project
	Members []Member
	Users   []User
}

// OwnedBy reports whether the given user owns the project.
func (r Roster) OwnedBy(userID int) bool {
	return r.Project.OwnerID == userID
}

// IsMember reports whether the given user holds a membership on the
// project. The owner is not implicitly a member.
func (r Roster) IsMember(userID int) bool {
	for _, m := range r.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// UserByID looks a user up in the global directory.
func (r Roster) UserByID(id int) (User, bool) {
	for _, u := range r.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// AvailableUsers returns the users that can still be added manually: the
// global directory minus the owner and the current members.
func (r Roster) AvailableUsers() []User {
	var out []User
	for _, u := range r.Users {
		if u.ID == r.Project.OwnerID || r.IsMember(u.ID) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// RoleGroup is one bucket of members sharing a recorded role name.
type RoleGroup struct {
	Name    string
	Members []Member
}

// GroupByRole partitions members into buckets keyed by their recorded role
// name, with RoleUnassigned standing in for empty names. Bucket order
// follows first appearance in the member list and members keep their
// insertion order inside each bucket.
func (r Roster) GroupByRole() []RoleGroup {
	var groups []RoleGroup
	index := map[string]int{}
	for _, m := range r.Members {
		name := m.RoleName
		if name == "" {
			name = RoleUnassigned
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, RoleGroup{Name: name})
		}
		groups[i].Members = append(groups[i].Members, m)
	}
	return groups
}

// FillCount counts members whose recorded role name equals the given
// requirement name. The match is literal: no trimming, no case folding,
// matching what the backend stores.
func (r Roster) FillCount(roleName string) int {
	n := 0
	for _, m := range r.Members {
		if m.RoleName == roleName {
			n++
		}
	}
	return n
}

// TotalFilled is the current member count, shown against TotalNeeded. The
// backend may legitimately hold more members than the roles call for.
func (r Roster) TotalFilled() int {
	return len(r.Members)
}
