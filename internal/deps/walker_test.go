package deps

import (
	"errors"
	"iter"
	"testing"

	"github.com/google/uuid"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/jakoblorz/slnchain/internal/projectfile"
	"github.com/jakoblorz/slnchain/internal/sln"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guidA = "aaaaaaaa-0000-0000-0000-000000000001"
	guidB = "bbbbbbbb-0000-0000-0000-000000000002"
	guidC = "cccccccc-0000-0000-0000-000000000003"
	guidD = "dddddddd-0000-0000-0000-000000000004"
)

func names(projects []*models.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Name())
	}
	return out
}

func loadRoot(t *testing.T, b *sln.Builder, rel string) (*projectfile.Loader, *models.Project) {
	t.Helper()
	fs := b.Build()
	f, err := projectfile.Load(fs, b.ProjectPath(rel))
	require.NoError(t, err)
	return projectfile.NewLoader(fs, projectfile.SkipMissing), f.Project()
}

func TestFlatten_SingleProject(t *testing.T) {
	loader, root := loadRoot(t, sln.NewBuilder("/repo", "All.sln").
		AddProjectFile("A/A.csproj", guidA), "A/A.csproj")

	chain, err := NewWalker(nil, loader).Flatten(root)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	require.True(t, chain[0].Equal(root))
}

func TestFlatten_LinearChain(t *testing.T) {
	loader, root := loadRoot(t, sln.NewBuilder("/repo", "All.sln").
		AddProjectFile("A/A.csproj", guidA, "B/B.csproj").
		AddProjectFile("B/B.csproj", guidB, "C/C.csproj").
		AddProjectFile("C/C.csproj", guidC), "A/A.csproj")

	chain, err := NewWalker(nil, loader).Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names(chain))
}

func TestFlatten_DiamondKeepsDuplicates(t *testing.T) {
	loader, root := loadRoot(t, sln.NewBuilder("/repo", "All.sln").
		AddProjectFile("A/A.csproj", guidA, "B/B.csproj", "C/C.csproj").
		AddProjectFile("B/B.csproj", guidB, "D/D.csproj").
		AddProjectFile("C/C.csproj", guidC, "D/D.csproj").
		AddProjectFile("D/D.csproj", guidD), "A/A.csproj")

	chain, err := NewWalker(nil, loader).Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D", "C", "D"}, names(chain))
}

func TestWalk_Depth(t *testing.T) {
	loader, root := loadRoot(t, sln.NewBuilder("/repo", "All.sln").
		AddProjectFile("A/A.csproj", guidA, "B/B.csproj", "C/C.csproj").
		AddProjectFile("B/B.csproj", guidB, "D/D.csproj").
		AddProjectFile("C/C.csproj", guidC).
		AddProjectFile("D/D.csproj", guidD), "A/A.csproj")

	var depths []int
	err := NewWalker(nil, loader).Walk(root, func(_ *models.Project, depth int) error {
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestFlatten_Cycle(t *testing.T) {
	loader, root := loadRoot(t, sln.NewBuilder("/repo", "All.sln").
		AddProjectFile("A/A.csproj", guidA, "B/B.csproj").
		AddProjectFile("B/B.csproj", guidB, "C/C.csproj").
		AddProjectFile("C/C.csproj", guidC, "A/A.csproj"), "A/A.csproj")

	_, err := NewWalker(nil, loader).Flatten(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDependencyCycle))
	assert.Contains(t, err.Error(), "A -> B -> C -> A")
}

func TestFlatten_SelfReference(t *testing.T) {
	loader, root := loadRoot(t, sln.NewBuilder("/repo", "All.sln").
		AddProjectFile("A/A.csproj", guidA, "A/A.csproj"), "A/A.csproj")

	_, err := NewWalker(nil, loader).Flatten(root)
	require.ErrorIs(t, err, models.ErrDependencyCycle)
}

func TestFlatten_ResolvesThroughSolution(t *testing.T) {
	b := sln.NewBuilder("/repo", "All.sln").
		AddProject("App", "A/A.csproj", guidA, "B/B.csproj").
		AddProject("Core Library", "B/B.csproj", guidB)
	fs := b.Build()

	s, err := sln.Load(fs, b.Path())
	require.NoError(t, err)
	root, ok := s.GetProject("App")
	require.True(t, ok)

	chain, err := NewWalker(s.Resolve, projectfile.NewLoader(fs, projectfile.SkipMissing)).Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"App", "Core Library"}, names(chain))
}

func TestFlatten_DependencyNotInSolution(t *testing.T) {
	b := sln.NewBuilder("/repo", "All.sln").
		AddProject("App", "A/A.csproj", guidA, "B/B.csproj").
		AddProjectFile("B/B.csproj", guidB)
	fs := b.Build()

	s, err := sln.Load(fs, b.Path())
	require.NoError(t, err)
	root, ok := s.GetProject("App")
	require.True(t, ok)

	_, err = NewWalker(s.Resolve, projectfile.NewLoader(fs, projectfile.SkipMissing)).Flatten(root)
	require.ErrorIs(t, err, models.ErrProjectNotFound)
}

type failingLoader struct{ err error }

func (l failingLoader) Dependencies(*models.Project) iter.Seq2[*models.Project, error] {
	return func(yield func(*models.Project, error) bool) {
		yield(nil, l.err)
	}
}

func TestFlatten_LoaderError(t *testing.T) {
	root := models.NewFileProject(uuid.MustParse(guidA), "/repo/A/A.csproj", models.CSharpTypeGUID)

	_, err := NewWalker(nil, failingLoader{err: models.ErrFileNotFound}).Flatten(root)
	require.ErrorIs(t, err, models.ErrFileNotFound)
	assert.Contains(t, err.Error(), "failed to read dependencies of A")
}

func TestWalk_VisitErrorStops(t *testing.T) {
	loader, root := loadRoot(t, sln.NewBuilder("/repo", "All.sln").
		AddProjectFile("A/A.csproj", guidA, "B/B.csproj").
		AddProjectFile("B/B.csproj", guidB), "A/A.csproj")

	stop := errors.New("stop")
	visited := 0
	err := NewWalker(nil, loader).Walk(root, func(*models.Project, int) error {
		visited++
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, visited)
}
