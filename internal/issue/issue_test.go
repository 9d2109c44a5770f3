// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		ConfigNotFoundId,
		ConfigNameInvalidId,
		ConfigParseErrorId,
		SourceFilesMissingId,
		BuildFailedId,
		ArtifactMissingId,
		ContainerEngineNotFoundId,
		ContainerStartFailedId,
		ContainerStopFailedId,
		GradleWrapperFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if id == 0 {
			t.Error("Id 0 is reserved for \"no issue\"")
		}
		if seen[id] {
			t.Errorf("duplicate Id: %d", id)
		}
		seen[id] = true
	}
}

func TestIssue_Markdown(t *testing.T) {
	md := Get(BuildFailedId).Markdown()
	if !strings.Contains(md, "## See also:") {
		t.Errorf("Markdown() should list links:\n%s", md)
	}

	md = Get(ConfigNameInvalidId).Markdown()
	if strings.Contains(md, "See also") {
		t.Errorf("Markdown() without links should not have a See also section:\n%s", md)
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in, stylePath string) (string, error) {
		return in, nil
	}

	rendered, err := Get(ConfigNameInvalidId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "wdee-config.yaml") {
		t.Error("Render() output should mention wdee-config.yaml")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ConfigNotFoundId, false, "Configuration file not found"},
		{ConfigNameInvalidId, false, "Invalid configuration file name"},
		{ConfigParseErrorId, false, "Failed to parse"},
		{SourceFilesMissingId, false, "source files were not found"},
		{BuildFailedId, false, "Failed to build"},
		{ArtifactMissingId, false, "no JAR was produced"},
		{ContainerEngineNotFoundId, false, "Container engine not found"},
		{ContainerStartFailedId, false, "Failed to start"},
		{ContainerStopFailedId, false, "Failed to stop"},
		{GradleWrapperFailedId, false, "`unzip`"},
		{Id(9999), true, "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted at %d", i)
		}
	}
}
