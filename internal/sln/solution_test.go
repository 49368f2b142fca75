package sln

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSolution(t *testing.T, b *Builder) *Solution {
	t.Helper()
	fs := b.Build()
	s, err := Load(fs, b.Path())
	require.NoError(t, err)
	return s
}

func TestGetProject_IgnoresCase(t *testing.T) {
	s := loadSolution(t, NewBuilder("/repo", "All.sln").
		AddProject("Core.Runtime", "Core/Core.csproj", guidA))

	p, ok := s.GetProject("core.RUNTIME")
	require.True(t, ok)
	assert.Equal(t, "Core.Runtime", p.Name())

	_, ok = s.GetProject("Core")
	assert.False(t, ok)
}

func TestAddProject_Idempotent(t *testing.T) {
	s := NewSolution("/repo/New.sln")
	p := models.NewFileProject(uuid.MustParse(guidA), "/repo/A/A.csproj", models.CSharpTypeGUID)
	same := models.NewFileProject(uuid.MustParse(guidA), "/elsewhere/A.csproj", models.CSharpTypeGUID)

	assert.True(t, s.AddProject(p))
	assert.False(t, s.AddProject(same))
	require.Len(t, s.Projects, 1)
	assert.Same(t, p, s.Projects[0])
}

func TestResolve(t *testing.T) {
	s := loadSolution(t, NewBuilder("/repo", "All.sln").
		AddProject("App", "A/A.csproj", guidA))

	fromFile := models.NewFileProject(uuid.MustParse(guidA), "/other/A.csproj", models.CSharpTypeGUID)
	resolved, err := s.Resolve(fromFile)
	require.NoError(t, err)
	assert.Equal(t, "App", resolved.Name())

	unknown := models.NewFileProject(uuid.MustParse(guidB), "/other/B.csproj", models.CSharpTypeGUID)
	_, err = s.Resolve(unknown)
	require.ErrorIs(t, err, models.ErrProjectNotFound)
}

func TestGetBuildConfigsFor(t *testing.T) {
	s := loadSolution(t, NewBuilder("/repo", "All.sln").
		AddProject("App", "A/A.csproj", guidA).
		AddProject("Lib", "B/B.csproj", guidB).
		AddBuildConfig(guidA, "Debug|x86").
		AddBuildConfig(guidA, "Debug2|x86").
		AddBuildConfig(guidA, "Release|x86").
		AddBuildConfig(guidB, "Debug|x86"))

	app, _ := s.GetProject("App")

	entries, err := s.GetBuildConfigsFor(app, "debug|X86")
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{
		{Key: "{AAAAAAAA-0000-0000-0000-000000000001}.Debug|x86.ActiveCfg", Value: "Debug|x86"},
		{Key: "{AAAAAAAA-0000-0000-0000-000000000001}.Debug|x86.Build.0", Value: "Debug|x86"},
	}, entries)

	entries, err = s.GetBuildConfigsFor(app, "Debug|ARM")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildConfigSection_Missing(t *testing.T) {
	s, err := Parse("/repo/x.sln", []byte("Global\nEndGlobal\n"))
	require.NoError(t, err)

	p := models.NewFileProject(uuid.MustParse(guidA), "/repo/A.csproj", models.CSharpTypeGUID)

	_, err = s.GetBuildConfigsFor(p, "Debug|x86")
	require.ErrorIs(t, err, models.ErrMandatorySectionMissing)
	_, err = s.AddBuildConfig(models.Entry{Key: "k", Value: "v"})
	require.ErrorIs(t, err, models.ErrMandatorySectionMissing)
	_, err = s.DanglingBuildConfigs()
	require.ErrorIs(t, err, models.ErrMandatorySectionMissing)
}

func TestAddBuildConfig_FirstWriteWins(t *testing.T) {
	s := NewSolution("/repo/New.sln")

	added, err := s.AddBuildConfig(models.Entry{Key: "k", Value: "first"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddBuildConfig(models.Entry{Key: "k", Value: "second"})
	require.NoError(t, err)
	assert.False(t, added)

	section, err := s.GetBuildConfigSection()
	require.NoError(t, err)
	v, _ := section.Entries.Get("k")
	assert.Equal(t, "first", v)

	n, err := s.AddBuildConfigs([]models.Entry{{Key: "k", Value: "x"}, {Key: "j", Value: "y"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRemapConfigKey(t *testing.T) {
	got, err := RemapConfigKey("{AAAAAAAA-0000-0000-0000-000000000001}.Debug|x86.ActiveCfg", "Release|x64")
	require.NoError(t, err)
	assert.Equal(t, "{AAAAAAAA-0000-0000-0000-000000000001}.Release|x64.ActiveCfg", got)

	got, err = RemapConfigKey("{G}.Debug|x86.Build.0", "Release|x64")
	require.NoError(t, err)
	assert.Equal(t, "{G}.Release|x64.Build.0", got)

	_, err = RemapConfigKey("nodots", "Release|x64")
	require.ErrorIs(t, err, models.ErrMalformedConfigKey)
}

func TestSynthesizeBuildConfigs(t *testing.T) {
	p := models.NewFileProject(uuid.MustParse(guidB), "/repo/B.csproj", models.CSharpTypeGUID)

	assert.Equal(t, []models.Entry{
		{Key: "{BBBBBBBB-0000-0000-0000-000000000002}.Release|x64.ActiveCfg", Value: "Release|x64"},
		{Key: "{BBBBBBBB-0000-0000-0000-000000000002}.Release|x64.Build.0", Value: "Release|x64"},
	}, SynthesizeBuildConfigs(p, "Release|x64"))
}

func TestDanglingBuildConfigs(t *testing.T) {
	s := loadSolution(t, NewBuilder("/repo", "All.sln").
		AddProject("App", "A/A.csproj", guidA).
		AddBuildConfig(guidA, "Debug|x86").
		AddBuildConfig(guidC, "Debug|x86"))

	dangling, err := s.DanglingBuildConfigs()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"{CCCCCCCC-0000-0000-0000-000000000003}.Debug|x86.ActiveCfg",
		"{CCCCCCCC-0000-0000-0000-000000000003}.Debug|x86.Build.0",
	}, dangling)
}

func TestEnsureSolutionConfig(t *testing.T) {
	s := NewSolution("/repo/New.sln")
	assert.True(t, s.EnsureSolutionConfig("Release|x64"))
	assert.False(t, s.EnsureSolutionConfig("Release|x64"))

	loaded := loadSolution(t, NewBuilder("/repo", "All.sln"))
	assert.False(t, loaded.EnsureSolutionConfig("Release|x64"), "no SolutionConfigurationPlatforms section")
}

func TestRelativePath(t *testing.T) {
	s := NewSolution("/repo/sln/All.sln")
	p := models.NewFileProject(uuid.MustParse(guidA), "/repo/src/A/A.csproj", models.CSharpTypeGUID)
	assert.Equal(t, `..\src\A\A.csproj`, s.RelativePath(p))
}
