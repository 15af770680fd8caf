package gather

import "testing"

func TestIsGitURL(t *testing.T) {
	cases := map[string]bool{
		"https://github.com/owner/repo.git": true,
		"git@github.com:owner/repo.git":     true,
		"git@gitlab.com:group/proj.git":     true,
		"https://github.com/owner/repo":     false,
		"owner/repo":                        false,
		"/home/user/project":                false,
	}
	for in, want := range cases {
		if got := IsGitURL(in); got != want {
			t.Fatalf("IsGitURL(%q) = %v, want %v", in, got, want)
		}
	}
}
