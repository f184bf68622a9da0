package user

import "testing"

func TestSelfRegisterRole(t *testing.T) {
	cases := map[string]Role{
		"recruiter": RoleRecruiter,
		"Recruiter": RoleRecruiter,
		"candidate": RoleCandidate,
		"admin":     RoleCandidate,
		"":          RoleCandidate,
		"owner":     RoleCandidate,
	}
	for in, want := range cases {
		if got := SelfRegisterRole(in); got != want {
			t.Fatalf("SelfRegisterRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUser_HasResume(t *testing.T) {
	blank := "  "
	link := "https://res.cloudinary.com/x/resume.pdf"

	if (User{}).HasResume() {
		t.Fatalf("nil resume should not count")
	}
	if (User{Resume: &blank}).HasResume() {
		t.Fatalf("blank resume should not count")
	}
	if !(User{Resume: &link}).HasResume() {
		t.Fatalf("expected resume")
	}
}
