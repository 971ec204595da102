package chat

import "testing"

func TestInitials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"dotted", "john.doe", "J"},
		{"lowercase single", "alice", "A"},
		{"leading dot", ".hidden", "U"},
		{"empty", "", "U"},
		{"unicode", "élodie.m", "É"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserProfile{Username: tt.username}.Initials()
			if got != tt.want {
				t.Errorf("Initials(%q) = %q, want %q", tt.username, got, tt.want)
			}
		})
	}
}

func TestAvatarURL(t *testing.T) {
	u := UserProfile{Avatar: `uploads\avatars\a.png`}
	got := u.AvatarURL("http://localhost:5000/")
	want := "http://localhost:5000/uploads/avatars/a.png"
	if got != want {
		t.Errorf("AvatarURL = %q, want %q", got, want)
	}

	if got := (UserProfile{}).AvatarURL("http://x"); got != "" {
		t.Errorf("AvatarURL without avatar = %q, want empty", got)
	}
}
