// Package symtab implements the lexically-scoped macro table and the
// per-call Context that threads symbols, script globals/locals, and the
// accumulated output-token stream through interpretation (spec.md §4.3).
//
// Grounded on orig/src/compiler.py's SymbolTable and Context classes, kept
// in the teacher's struct-plus-small-methods style
// (aleksadvaisly-md2pdf/processor.go's Renderer holding accumulated state
// across a tree walk).
package symtab

import "github.com/pdfo-lang/pdfo/internal/stream"

// Macro is whatever a name resolves to in a SymbolTable: either a
// user-defined macro (carrying its own AST, which internal/interp owns the
// type for) or a built-in implemented in Go. The table itself is agnostic
// to what Value holds.
type Macro interface{}

// SymbolTable maps macro names to their definitions, walking up a parent
// chain on lookup miss. Each macro definition's body introduces a child
// SymbolTable so names defined inside it do not leak to siblings or the
// caller.
type SymbolTable struct {
	symbols map[string]Macro
	parent  *SymbolTable
}

// New creates a SymbolTable with the given parent, or a root table if
// parent is nil.
func New(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Macro), parent: parent}
}

// Get resolves name in this table, falling back to the parent chain. The
// second return value is false if name is bound nowhere in the chain.
func (s *SymbolTable) Get(name string) (Macro, bool) {
	if s == nil {
		return nil, false
	}
	if v, ok := s.symbols[name]; ok {
		return v, true
	}
	return s.parent.Get(name)
}

// Set binds name to value in this table, shadowing any parent binding.
func (s *SymbolTable) Set(name string, value Macro) {
	s.symbols[name] = value
}

// Remove deletes name from this table only; it does not affect parents.
func (s *SymbolTable) Remove(name string) {
	delete(s.symbols, name)
}

// Import copies bindings from other into s. With names nil every binding is
// copied (wholesale import); otherwise only the listed names are copied,
// and a name absent from other is an error — the caller asked to import
// something that doesn't exist.
func (s *SymbolTable) Import(other *SymbolTable, names []string) error {
	if names == nil {
		for k, v := range other.symbols {
			s.symbols[k] = v
		}
		return nil
	}
	for _, name := range names {
		v, ok := other.symbols[name]
		if !ok {
			return &ImportError{Name: name}
		}
		s.symbols[name] = v
	}
	return nil
}

// ImportError reports a selective import naming a macro the source table
// does not define.
type ImportError struct{ Name string }

func (e *ImportError) Error() string {
	return "could not import " + e.Name + ": not defined in source file"
}

// Copy deep-copies this table and its parent chain. The symbol values
// themselves are not cloned (macro ASTs are immutable once parsed), only
// the map structure, matching orig/src/compiler.py's Context.copy semantics
// for the things that actually get mutated afterward.
func (s *SymbolTable) Copy() *SymbolTable {
	if s == nil {
		return nil
	}
	new := &SymbolTable{symbols: make(map[string]Macro, len(s.symbols)), parent: s.parent.Copy()}
	for k, v := range s.symbols {
		new.symbols[k] = v
	}
	return new
}

// Context threads everything a tree-walking visit needs: the macro table in
// scope, the script host's globals (shared by every Context descending from
// the same file, since Python-style globals are not lexically scoped the
// way macro names are) and locals (lexically scoped, re-derived per child),
// and the accumulated stream of output tokens that will later reach the
// placer.
//
// Child contexts are created at macro-call sites: gen_child gives the
// macro body its own SymbolTable (parented on the caller's, so names
// defined inside the body don't escape) while still sharing the same
// globals map and starting from a copy of the caller's locals — mirroring
// orig/src/compiler.py's Context.gen_child, which builds the child's locals
// dict as a flattened copy of the parent's rather than a live chain, since
// only one dict can be handed to a single exec/eval call.
type Context struct {
	DisplayName string
	FilePath    string
	Parent      *Context

	Symbols *SymbolTable

	globals map[string]any
	locals  map[string]any

	items []stream.Item

	// AtTopLevel is true only for the outermost Context of a file; the
	// interpreter flips it false as soon as it descends past the root
	// Document node, per orig/src/compiler.py's global_level flag, which
	// decides whether a Document's visit result is additionally appended
	// to the running token_document.
	AtTopLevel bool
}

// NewRoot creates the Context for a whole file. globals must be non-nil —
// every Context in the chain resolves globals by walking up to this one.
func NewRoot(displayName, filePath string, globals map[string]any) *Context {
	return &Context{
		DisplayName: displayName,
		FilePath:    filePath,
		Symbols:     New(nil),
		globals:     globals,
		locals:      make(map[string]any),
		AtTopLevel:  true,
	}
}

// Globals returns the globals map shared across this Context's whole file,
// walking up to the root if this Context doesn't hold one directly.
func (c *Context) Globals() map[string]any {
	if c.globals != nil {
		return c.globals
	}
	if c.Parent != nil {
		return c.Parent.Globals()
	}
	return nil
}

// Locals returns this Context's own locals map; a root Context starts with
// an empty one.
func (c *Context) Locals() map[string]any { return c.locals }

// Items returns the output stream accumulated in this Context.
func (c *Context) Items() []stream.Item { return c.items }

// AppendItems extends the accumulated output stream.
func (c *Context) AppendItems(items ...stream.Item) {
	c.items = append(c.items, items...)
}

// GenChild produces the Context for the inside of a macro body. localsToAdd
// (the macro's bound parameters) are merged on top of a flattened copy of
// the caller's locals, since the scripting host's Eval/Exec only accept one
// locals mapping, not a walkable chain — the lexical lookup that
// SymbolTable gives macros for free has to be flattened by value here.
func (c *Context) GenChild(displayName string, localsToAdd map[string]any) *Context {
	childLocals := make(map[string]any, len(c.locals)+len(localsToAdd))
	for k, v := range c.locals {
		childLocals[k] = v
	}
	for k, v := range localsToAdd {
		childLocals[k] = v
	}

	return &Context{
		DisplayName: displayName,
		FilePath:    c.FilePath,
		Parent:      c,
		Symbols:     New(c.Symbols),
		globals:     c.Globals(),
		locals:      childLocals,
		AtTopLevel:  false,
	}
}

// Import merges another Context's symbols and globals into this one — the
// "import" half of import-graph resolution (spec.md §4.5): the caller gets
// the imported file's macros, but nothing the imported file itself wrote to
// its own output stream.
func (c *Context) Import(other *Context, names []string) error {
	if err := c.Symbols.Import(other.Symbols, names); err != nil {
		return err
	}
	dst := c.Globals()
	for k, v := range other.Globals() {
		dst[k] = v
	}
	return nil
}

// Insert does everything Import does and additionally splices other's
// accumulated output stream into this Context's own — the "insert" half of
// import-graph resolution (spec.md §4.5): "run the file in the caller's
// context; its macros and outputs both flow in."
func (c *Context) Insert(other *Context, names []string) error {
	if err := c.Import(other, names); err != nil {
		return err
	}
	c.AppendItems(other.Items()...)
	return nil
}
