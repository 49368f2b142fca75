// Package deps flattens the project-reference graph below a root project.
package deps

import (
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	"github.com/jakoblorz/slnchain/internal/models"
	"go.uber.org/zap"
)

// DependencyLoader yields the declared project references of a project in
// file order.
type DependencyLoader interface {
	Dependencies(p *models.Project) iter.Seq2[*models.Project, error]
}

// ResolveFunc maps a project to the copy that should appear in the output,
// typically the instance held by a solution.
type ResolveFunc func(p *models.Project) (*models.Project, error)

// Identity returns p unchanged. It is used when no solution backs the walk.
func Identity(p *models.Project) (*models.Project, error) {
	return p, nil
}

// Walker performs a pre-order depth-first traversal of project references.
//
// Shared dependencies are visited once per path that reaches them, so a
// diamond yields its bottom project twice. A reference back to a project that
// is still on the current path is reported as models.ErrDependencyCycle.
type Walker struct {
	resolve ResolveFunc
	loader  DependencyLoader
	logger  *zap.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used for traversal diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWalker creates a Walker.
func NewWalker(resolve ResolveFunc, loader DependencyLoader, options ...Option) *Walker {
	if resolve == nil {
		resolve = Identity
	}
	w := &Walker{
		resolve: resolve,
		loader:  loader,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(w)
	}
	return w
}

// VisitFunc is called for each project in traversal order. depth is 0 for the
// root.
type VisitFunc func(p *models.Project, depth int) error

type frame struct {
	project *models.Project
	deps    []*models.Project
	next    int
}

// Walk traverses the graph below root, calling visit with the resolved copy
// of each project. The traversal keeps its own stack, so deep chains do not
// grow the goroutine stack.
func (w *Walker) Walk(root *models.Project, visit VisitFunc) error {
	var stack []*frame
	onPath := make(map[uuid.UUID]bool)

	enter := func(p *models.Project) error {
		if onPath[p.GUID()] {
			return w.cycleError(stack, p)
		}

		resolved, err := w.resolve(p)
		if err != nil {
			return err
		}

		if err := visit(resolved, len(stack)); err != nil {
			return err
		}

		var deps []*models.Project
		for dep, err := range w.loader.Dependencies(p) {
			if err != nil {
				return fmt.Errorf("failed to read dependencies of %s: %w", p.Name(), err)
			}
			deps = append(deps, dep)
		}

		w.logger.Debug("visited project",
			zap.String("name", resolved.Name()),
			zap.String("guid", resolved.Key()),
			zap.Int("depth", len(stack)),
			zap.Int("references", len(deps)))

		onPath[p.GUID()] = true
		stack = append(stack, &frame{project: p, deps: deps})
		return nil
	}

	if err := enter(root); err != nil {
		return err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.deps) {
			dep := top.deps[top.next]
			top.next++
			if err := enter(dep); err != nil {
				return err
			}
			continue
		}

		delete(onPath, top.project.GUID())
		stack = stack[:len(stack)-1]
	}

	return nil
}

// Flatten returns the pre-order sequence of root and its transitive
// dependencies. The root comes first.
func (w *Walker) Flatten(root *models.Project) ([]*models.Project, error) {
	var out []*models.Project
	err := w.Walk(root, func(p *models.Project, _ int) error {
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *Walker) cycleError(stack []*frame, repeat *models.Project) error {
	names := make([]string, 0, len(stack)+1)
	start := 0
	for i, f := range stack {
		if f.project.GUID() == repeat.GUID() {
			start = i
		}
	}
	for _, f := range stack[start:] {
		names = append(names, f.project.Name())
	}
	names = append(names, repeat.Name())
	return fmt.Errorf("%w: %s", models.ErrDependencyCycle, strings.Join(names, " -> "))
}
