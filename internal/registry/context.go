package registry

import (
	"fmt"
	"path/filepath"
)

// State tracks the lifecycle of an assembly Context.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateAssembling
	StateDone
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrNotInitialized is returned when the registry is mutated or queried
// before Init.
var ErrNotInitialized = fmt.Errorf("registry used before initialization")

// ErrAlreadyInitialized is returned by a second Init on the same Context.
var ErrAlreadyInitialized = fmt.Errorf("registry initialized twice")

// Context is the process-wide accumulator for one assembly invocation.
// Declaration calls arrive sequentially from strictly nested scopes, so
// no locking is needed. The zero value is unusable; use NewContext.
type Context struct {
	project   string
	namespace string
	state     State
	targets   []*TargetRecord
	byName    map[string]*TargetRecord
	byAlias   map[string]*TargetRecord
}

// NewContext creates an uninitialized Context for the named project.
// The namespace qualifies target aliases (e.g. "proj::core"); when empty
// it defaults to the project name.
func NewContext(project, namespace string) *Context {
	if namespace == "" {
		namespace = project
	}
	return &Context{
		project:   project,
		namespace: namespace,
		byName:    make(map[string]*TargetRecord),
		byAlias:   make(map[string]*TargetRecord),
	}
}

// Project returns the project name the Context was created for.
func (c *Context) Project() string { return c.project }

// Namespace returns the alias namespace.
func (c *Context) Namespace() string { return c.namespace }

// State returns the current lifecycle state.
func (c *Context) State() State { return c.state }

// Init moves the Context from Uninitialized to Initialized. A second
// Init is an error: tolerating it would mask scope-nesting bugs in the
// caller's declaration order.
func (c *Context) Init() error {
	if c.state != StateUninitialized {
		return fmt.Errorf("%w (state %s)", ErrAlreadyInitialized, c.state)
	}
	c.state = StateInitialized
	return nil
}

// Register appends a target to the registry. For header-exposing kinds
// it also records <sourceRoot>/include as a public header root and
// creates the namespaced alias as a pure lookup synonym. Registration
// outside {Initialized, Assembling} fails.
func (c *Context) Register(name string, kind Kind, sourceRoot, artifactPath string) (*TargetRecord, error) {
	if c.state != StateInitialized && c.state != StateAssembling {
		return nil, fmt.Errorf("registering target %q: %w (state %s)", name, ErrNotInitialized, c.state)
	}
	if _, exists := c.byName[name]; exists {
		return nil, fmt.Errorf("target %q registered twice", name)
	}

	rec := &TargetRecord{
		Name:         name,
		Kind:         kind,
		SourceRoot:   sourceRoot,
		ArtifactPath: artifactPath,
	}

	if kind.ExposesHeaders() {
		rec.HeaderRoots = append(rec.HeaderRoots, filepath.Join(sourceRoot, "include"))
		rec.Alias = c.namespace + "::" + name
		c.byAlias[rec.Alias] = rec
	}

	c.targets = append(c.targets, rec)
	c.byName[name] = rec
	return rec, nil
}

// AddHeaderRoot appends an additional public header root to a registered
// header-exposing target.
func (c *Context) AddHeaderRoot(name, root string) error {
	if c.state != StateInitialized && c.state != StateAssembling {
		return fmt.Errorf("adding header root for %q: %w (state %s)", name, ErrNotInitialized, c.state)
	}
	rec, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("target %q is not registered", name)
	}
	if !rec.Kind.ExposesHeaders() {
		return fmt.Errorf("target %q (%s) does not expose headers", name, rec.Kind)
	}
	rec.HeaderRoots = append(rec.HeaderRoots, root)
	return nil
}

// Targets returns all registered records in insertion order.
func (c *Context) Targets() ([]*TargetRecord, error) {
	if c.state == StateUninitialized {
		return nil, ErrNotInitialized
	}
	return c.targets, nil
}

// Deployables returns the registered records whose kind is loaded at
// runtime, in insertion order.
func (c *Context) Deployables() ([]*TargetRecord, error) {
	targets, err := c.Targets()
	if err != nil {
		return nil, err
	}
	var out []*TargetRecord
	for _, rec := range targets {
		if rec.Kind.Deployable() {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Lookup returns the record registered under name.
func (c *Context) Lookup(name string) (*TargetRecord, bool) {
	rec, ok := c.byName[name]
	return rec, ok
}

// LookupAlias resolves a namespaced alias to its record.
func (c *Context) LookupAlias(alias string) (*TargetRecord, bool) {
	rec, ok := c.byAlias[alias]
	return rec, ok
}

// BeginAssembly moves the Context into the Assembling state. The
// registry remains mutable: nested declaration scopes may still be
// draining while assembly of earlier scopes starts.
func (c *Context) BeginAssembly() error {
	if c.state != StateInitialized {
		return fmt.Errorf("beginning assembly: %w (state %s)", ErrNotInitialized, c.state)
	}
	c.state = StateAssembling
	return nil
}

// Finish moves the Context to Done. Registry contents are discarded by
// the caller afterwards; a finished Context rejects all further use.
func (c *Context) Finish() error {
	if c.state != StateAssembling {
		return fmt.Errorf("finishing assembly: %w (state %s)", ErrNotInitialized, c.state)
	}
	c.state = StateDone
	return nil
}
