package ui

import (
	"testing"

	"github.com/five82/flock/internal/notify"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesDefineEveryColor(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		colors := map[string]string{
			"Background": th.Background, "Surface": th.Surface, "SelectionBg": th.SelectionBg,
			"Text": th.Text, "Muted": th.Muted, "Accent": th.Accent, "Success": th.Success,
			"Danger": th.Danger, "Info": th.Info, "Like": th.Like, "Bookmark": th.Bookmark,
		}
		for field, v := range colors {
			if v == "" {
				t.Fatalf("%s.%s is empty", name, field)
			}
		}
	}
}

func TestNoticeStyleColors(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()

	if got := styles.NoticeStyle(notify.LevelError).GetForeground(); got != styles.DangerText.GetForeground() {
		t.Fatalf("error notice color = %v, want danger %v", got, styles.DangerText.GetForeground())
	}
	if got := styles.NoticeStyle(notify.Level(99)).GetForeground(); got != styles.MutedText.GetForeground() {
		t.Fatalf("unknown level color = %v, want muted", got)
	}

	bg := styles.WithBackground(th.Surface)
	if got := bg.NoticeStyle(notify.LevelSuccess).GetForeground(); got != styles.SuccessText.GetForeground() {
		t.Fatalf("WithBackground lost level colors: %v", got)
	}
}
