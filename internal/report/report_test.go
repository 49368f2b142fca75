package report

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/uuid"
	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/merge"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(name string) *models.Project {
	return models.NewFileProject(uuid.New(), "/repo/"+name+"/"+name+".csproj", models.CSharpTypeGUID)
}

func diamondResult() *merge.Result {
	a, b, c, d := project("App"), project("B"), project("C"), project("D")
	return &merge.Result{
		Root:         a,
		Chain:        []*models.Project{a, b, d, c, d},
		Added:        []*models.Project{a, b, d, c},
		ConfigsAdded: 8,
		TargetPath:   "/repo/sub/Target.sln",
		SourcePath:   "/repo/All.sln",
		SourceConfig: "Debug|x86",
		TargetConfig: "Release|x64",
	}
}

func TestRender_Default(t *testing.T) {
	out, err := NewDefaultRenderer().Render(diamondResult())
	require.NoError(t, err)

	assert.Equal(t, "App -> /repo/sub/Target.sln\n"+
		"Chain: App > B > D > C > D\n"+
		"Added 4 project(s): App, B, D, C\n"+
		"Build configs added: 8 (Debug|x86 => Release|x64)\n", out)
}

func TestRender_DryRunWithSkippedAndBackup(t *testing.T) {
	result := diamondResult()
	result.DryRun = true
	result.Skipped = result.Added[2:]
	result.Added = result.Added[:2]
	result.BackupPath = "/repo/sub/Target.sln.abc.bak"

	out, err := NewDefaultRenderer().Render(result)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, out)
}

func TestRender_BareProjectShowsSynthesized(t *testing.T) {
	result := diamondResult()
	result.BareProjectRun = true
	result.Added = nil

	out, err := NewDefaultRenderer().Render(result)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 0 project(s)\n")
	assert.Contains(t, out, "(synthesized => Release|x64)")
}

func TestLoadRenderer(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/summary.tmpl", []byte(`{{ .Added | join "," | upper }} into {{ base .Target }}`))

	r, err := LoadRenderer(fs, "/repo/summary.tmpl")
	require.NoError(t, err)

	out, err := r.Render(diamondResult())
	require.NoError(t, err)
	assert.Equal(t, "APP,B,D,C into Target.sln", out)

	_, err = LoadRenderer(fs, "/repo/missing.tmpl")
	require.Error(t, err)
}

func TestNewRenderer_InvalidTemplate(t *testing.T) {
	_, err := NewRenderer("{{ .Root ")
	require.Error(t, err)
}
