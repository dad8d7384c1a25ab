package ui

import (
	"strings"
	"testing"
)

func TestRenderType(t *testing.T) {
	for _, tag := range []string{"NiagaraSystem", "Material", "Texture2D", "StaticMesh", "SomethingElse"} {
		if got := RenderType(tag); !strings.Contains(got, tag) {
			t.Errorf("RenderType(%q) = %q, lost the tag", tag, got)
		}
	}
	if got := RenderType("SomethingElse"); got != "SomethingElse" {
		t.Errorf("unknown tags should stay plain, got %q", got)
	}
}

func TestFormatCheck(t *testing.T) {
	pass := FormatCheck(true, "Asset Catalog")
	fail := FormatCheck(false, "Asset Catalog")

	if !strings.Contains(pass, IconSuccess) || !strings.HasSuffix(pass, "Asset Catalog") {
		t.Errorf("unexpected pass line %q", pass)
	}
	if !strings.Contains(fail, IconError) || !strings.HasSuffix(fail, "Asset Catalog") {
		t.Errorf("unexpected fail line %q", fail)
	}
}

func TestSetThemeKeepsStyles(t *testing.T) {
	defer SetTheme("auto")

	for _, theme := range []string{"dark", "light", "auto"} {
		SetTheme(theme)
		if !strings.Contains(FormatSuccess("done"), "done") {
			t.Errorf("theme %s: success message lost", theme)
		}
	}
}
