package team

import "testing"

func testRoster() Roster {
	return Roster{
		Project: Project{
			ID:      1,
			Name:    "Sema",
			OwnerID: 100,
			Roles: RoleList{
				{Name: "Backend", Count: 2},
				{Name: "Frontend", Count: 1},
			},
		},
		Members: []Member{
			{User: User{ID: 7, Name: "Anya"}, RoleName: "Backend"},
			{User: User{ID: 8, Name: "Boris"}},
			{User: User{ID: 9, Name: "Vera"}, RoleName: "Backend"},
		},
		Users: []User{
			{ID: 7, Name: "Anya"},
			{ID: 8, Name: "Boris"},
			{ID: 9, Name: "Vera"},
			{ID: 10, Name: "Grisha"},
			{ID: 100, Name: "Owner"},
		},
	}
}

func TestRosterAvailableUsersExcludesOwnerAndMembers(t *testing.T) {
	r := testRoster()
	avail := r.AvailableUsers()
	if len(avail) != 1 || avail[0].ID != 10 {
		t.Fatalf("expected only user 10 available, got %+v", avail)
	}
}

func TestRosterGroupByRolePreservesOrder(t *testing.T) {
	r := testRoster()
	groups := r.GroupByRole()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "Backend" || groups[1].Name != RoleUnassigned {
		t.Fatalf("unexpected group order: %q, %q", groups[0].Name, groups[1].Name)
	}
	if len(groups[0].Members) != 2 || groups[0].Members[0].ID != 7 || groups[0].Members[1].ID != 9 {
		t.Fatalf("backend bucket lost insertion order: %+v", groups[0].Members)
	}
	if len(groups[1].Members) != 1 || groups[1].Members[0].ID != 8 {
		t.Fatalf("unassigned bucket wrong: %+v", groups[1].Members)
	}
}

func TestRosterFillCountIsLiteral(t *testing.T) {
	r := testRoster()
	r.Members = append(r.Members,
		Member{User: User{ID: 11}, RoleName: "backend"},
		Member{User: User{ID: 12}, RoleName: "Backend "},
	)
	if got := r.FillCount("Backend"); got != 2 {
		t.Fatalf("fill count must match the stored string exactly, got %d", got)
	}
	if got := r.FillCount("backend"); got != 1 {
		t.Fatalf("lowercase variant counts separately, got %d", got)
	}
}

func TestRosterOverfilledRoleIsRepresentable(t *testing.T) {
	r := testRoster()
	r.Members = append(r.Members, Member{User: User{ID: 13}, RoleName: "Frontend"}, Member{User: User{ID: 14}, RoleName: "Frontend"})
	filled := r.FillCount("Frontend")
	needed := r.Project.Roles[1].Count
	if filled <= needed {
		t.Fatalf("fixture should be over-filled, got %d/%d", filled, needed)
	}
}

func TestRosterIsMemberIgnoresOwner(t *testing.T) {
	r := testRoster()
	if r.IsMember(100) {
		t.Fatalf("owner must not count as a member")
	}
	if !r.IsMember(8) {
		t.Fatalf("user 8 is a member")
	}
}

func TestUserDisplayName(t *testing.T) {
	cases := []struct {
		user User
		want string
	}{
		{User{ID: 1, Name: "Anya", Username: "anya"}, "Anya"},
		{User{ID: 2, Username: "boris"}, "@boris"},
		{User{ID: 3}, "User #3"},
	}
	for _, tc := range cases {
		if got := tc.user.DisplayName(); got != tc.want {
			t.Errorf("DisplayName() = %q, want %q", got, tc.want)
		}
	}
}
