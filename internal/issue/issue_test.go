// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

// The render stub tests mutate the package-level render seam, so this
// file stays serial.

func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}
}

func TestIdConstants(t *testing.T) {
	ids := []Id{
		UnknownUtilityId,
		ToolboxConfigId,
		ConfigLoadFailedId,
		ConfigInvalidId,
		RecursionLimitId,
		InstallFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if UnknownUtilityId != 1 {
		t.Errorf("UnknownUtilityId = %d, want 1", UnknownUtilityId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{UnknownUtilityId, false, "Unknown utility"},
		{ToolboxConfigId, false, "Toolbox construction failed"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{ConfigInvalidId, false, "Configuration rejected"},
		{RecursionLimitId, false, "Recursion limit reached"},
		{InstallFailedId, false, "Install failed"},
		{Id(9999), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			got := Get(tt.id)

			if tt.wantNil {
				if got != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if got == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if got.Id() != tt.id {
				t.Errorf("Get(%d).Id() = %d", tt.id, got.Id())
			}
			if !strings.Contains(string(got.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	all := Values()

	if len(all) != len(issues) {
		t.Errorf("Values() returned %d issues, want %d", len(all), len(issues))
	}

	for _, iss := range all {
		if iss.Id() == 0 {
			t.Error("found issue with ID 0")
		}
		if iss.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty MarkdownMsg", iss.Id())
		}
	}
}

func TestDocLinksReturnsClone(t *testing.T) {
	iss := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test",
		docLinks: []HttpLink{"https://example.com/docs"},
	}

	links := iss.DocLinks()
	links[0] = "modified"

	if iss.DocLinks()[0] != "https://example.com/docs" {
		t.Error("DocLinks() should return a clone")
	}
}

func TestExtLinksReturnsClone(t *testing.T) {
	iss := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test",
		extLinks: []HttpLink{"https://example.com"},
	}

	links := iss.ExtLinks()
	links[0] = "modified"

	if iss.ExtLinks()[0] != "https://example.com" {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestRenderAllCataloged(t *testing.T) {
	stubRender(t)

	for _, iss := range Values() {
		rendered, err := iss.Render("")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", iss.Id(), err)
		}
		if rendered == "" {
			t.Errorf("issue %d rendered to empty string", iss.Id())
		}
	}
}

func TestRenderWithLinks(t *testing.T) {
	stubRender(t)

	iss := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test issue\n\nBody.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := iss.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if !strings.Contains(rendered, "See also") {
		t.Error("Render() with links should contain a See also section")
	}
	if !strings.Contains(rendered, "https://docs.example.com") {
		t.Error("Render() should list the doc link")
	}
}

func TestRenderNoLinks(t *testing.T) {
	stubRender(t)

	iss := &Issue{
		id:    Id(9998),
		mdMsg: "# Test issue\n\nNo links here.",
	}

	rendered, err := iss.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain a See also section")
	}
}
