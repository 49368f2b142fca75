package plan

import (
	"testing"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/merge"
	"github.com/jakoblorz/slnchain/internal/projectfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planText = `---
source: ../repo/All.sln
project: App
target: ..\repo\sub\Target.sln
sourceConfig: Debug|x86
targetConfig: Release|x64
missingRefs: fail
backup: true
---

# Bring App into the subset solution

Needed for the nightly build.
`

func TestRead(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/plans/app.md", []byte(planText))

	p, err := Read(fs, "/plans/app.md")
	require.NoError(t, err)

	assert.Equal(t, "/plans/app.md", p.FilePath)
	assert.Equal(t, "App", p.Project)
	assert.True(t, p.Backup)
	assert.False(t, p.Create)
	assert.Equal(t, "# Bring App into the subset solution\n\nNeeded for the nightly build.", p.Notes)

	req, err := p.Request()
	require.NoError(t, err)
	assert.Equal(t, merge.Request{
		SourceSolution: "/repo/All.sln",
		ProjectName:    "App",
		TargetSolution: "/repo/sub/Target.sln",
		SourceConfig:   "Debug|x86",
		TargetConfig:   "Release|x64",
		MissingRefs:    projectfile.FailOnMissing,
		Backup:         true,
	}, req)
}

func TestRequest_BareProjectFile(t *testing.T) {
	p, err := Parse([]byte("---\nprojectFile: /abs/App/App.csproj\ntarget: New.sln\ntargetConfig: Release|x64\ncreate: true\n---\n"))
	require.NoError(t, err)
	p.FilePath = "/plans/bare.md"

	req, err := p.Request()
	require.NoError(t, err)
	assert.Empty(t, req.SourceSolution)
	assert.Equal(t, "/abs/App/App.csproj", req.ProjectFile)
	assert.Equal(t, "/plans/New.sln", req.TargetSolution)
	assert.True(t, req.CreateTarget)
	assert.Equal(t, projectfile.SkipMissing, req.MissingRefs)
}

func TestRequest_InvalidPolicy(t *testing.T) {
	p, err := Parse([]byte("---\nmissingRefs: sometimes\n---\n"))
	require.NoError(t, err)

	_, err = p.Request()
	require.Error(t, err)
}

func TestParse_RequiresFrontMatter(t *testing.T) {
	_, err := Parse([]byte("# just notes\n"))
	require.Error(t, err)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filesystem.NewMockFileSystem(), "/plans/none.md")
	require.Error(t, err)
}
