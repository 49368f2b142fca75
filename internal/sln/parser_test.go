package sln

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guidA      = "aaaaaaaa-0000-0000-0000-000000000001"
	guidB      = "bbbbbbbb-0000-0000-0000-000000000002"
	guidC      = "cccccccc-0000-0000-0000-000000000003"
	guidFolder = "ffffffff-0000-0000-0000-00000000000f"
)

func TestParse(t *testing.T) {
	b := NewBuilder("/repo", "All.sln").
		AddProject("App", "src/App/App.csproj", guidA).
		AddProject("Lib", "src/Lib/Lib.vcxproj", guidB).
		AddFolder("Solution Items", guidFolder, "README.md", ".editorconfig").
		AddBuildConfig(guidA, "Debug|x86").
		AddGlobalSection("SolutionProperties", "preSolution", models.Entry{Key: "HideSolutionNode", Value: "FALSE"})

	s, err := Parse(b.Path(), []byte(b.Text()))
	require.NoError(t, err)

	assert.Equal(t, "\r\n", s.Newline)
	assert.Equal(t, DefaultPreamble, string(s.Preamble))
	require.Len(t, s.Projects, 3)

	app := s.Projects[0]
	assert.Equal(t, "App", app.Name())
	assert.Equal(t, uuid.MustParse(guidA), app.GUID())
	assert.Equal(t, models.CSharpTypeGUID, app.TypeGUID())
	assert.Equal(t, "/repo/src/App/App.csproj", app.Path)

	lib := s.Projects[1]
	assert.Equal(t, models.CppTypeGUID, lib.TypeGUID())

	folder := s.Projects[2]
	assert.True(t, folder.IsFolder())
	require.Len(t, folder.Sections(), 1)
	items := folder.Sections()[0]
	assert.Equal(t, "SolutionItems", items.Name)
	assert.Equal(t, models.PreProject, items.Type)
	assert.Equal(t, 2, items.Entries.Len())

	require.Len(t, s.Global, 2)
	assert.Equal(t, BuildConfigSectionName, s.Global[0].Name)
	assert.Equal(t, models.PostSolution, s.Global[0].Type)
	v, ok := s.Global[0].Entries.Get("{AAAAAAAA-0000-0000-0000-000000000001}.Debug|x86.ActiveCfg")
	require.True(t, ok)
	assert.Equal(t, "Debug|x86", v)
}

func TestParse_EntryValueMayContainEquals(t *testing.T) {
	text := "Global\n\tGlobalSection(ExtensibilityGlobals) = postSolution\n\t\tSolutionGuid = a=b\n\tEndGlobalSection\nEndGlobal\n"

	s, err := Parse("/repo/x.sln", []byte(text))
	require.NoError(t, err)
	assert.Equal(t, "\n", s.Newline)
	assert.Empty(t, s.Preamble)
	v, _ := s.Global[0].Entries.Get("SolutionGuid")
	assert.Equal(t, "a=b", v)
}

func TestParse_DuplicateKeysKeepFirst(t *testing.T) {
	text := "Global\n\tGlobalSection(ProjectConfigurationPlatforms) = postSolution\n\t\tk = first\n\t\tk = second\n\tEndGlobalSection\nEndGlobal\n"

	s, err := Parse("/repo/x.sln", []byte(text))
	require.NoError(t, err)
	v, _ := s.Global[0].Entries.Get("k")
	assert.Equal(t, "first", v)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{
			name: "malformed project header",
			text: "Project(\"{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}\") = \"App\"\nEndProject\n",
			line: 1,
		},
		{
			name: "bad guid",
			text: "Project(\"{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}\") = \"App\", \"App.csproj\", \"{zzz}\"\nEndProject\n",
			line: 1,
		},
		{
			name: "stray line in global",
			text: "Global\n\tnonsense\nEndGlobal\n",
			line: 2,
		},
		{
			name: "unknown section type",
			text: "Global\n\tGlobalSection(X) = sideways\n\tEndGlobalSection\nEndGlobal\n",
			line: 2,
		},
		{
			name: "entry without equals",
			text: "Global\n\tGlobalSection(X) = preSolution\n\t\tjunk\n\tEndGlobalSection\nEndGlobal\n",
			line: 3,
		},
		{
			name: "banner between projects",
			text: "Project(\"{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}\") = \"App\", \"App.csproj\", \"{" + guidA + "}\"\nEndProject\n# Visual Studio 17\nGlobal\nEndGlobal\n",
			line: 3,
		},
		{
			name: "content after EndGlobal",
			text: "Global\nEndGlobal\n\nleftover\n",
			line: 4,
		},
		{
			name: "eof inside project",
			text: "Project(\"{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}\") = \"App\", \"App.csproj\", \"{" + guidA + "}\"\n",
		},
		{
			name: "eof inside global",
			text: "Global\n\tGlobalSection(X) = preSolution\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("/repo/x.sln", []byte(tt.text))
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrParse))

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	fs := NewBuilder("/repo", "All.sln").FileSystem()

	_, err := Load(fs, "/repo/Missing.sln")
	require.ErrorIs(t, err, models.ErrFileNotFound)
}
