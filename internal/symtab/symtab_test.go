package symtab

import (
	"testing"

	"github.com/pdfo-lang/pdfo/internal/stream"
)

func TestGetWalksParentChain(t *testing.T) {
	root := New(nil)
	root.Set("greeting", "hello")
	child := New(root)

	v, ok := child.Get("greeting")
	if !ok || v != "hello" {
		t.Fatalf("Get(greeting) = %v, %v, want hello, true", v, ok)
	}
}

func TestSetShadowsParent(t *testing.T) {
	root := New(nil)
	root.Set("name", "outer")
	child := New(root)
	child.Set("name", "inner")

	if v, _ := child.Get("name"); v != "inner" {
		t.Fatalf("child Get(name) = %v, want inner", v)
	}
	if v, _ := root.Get("name"); v != "outer" {
		t.Fatalf("root Get(name) = %v, want outer (shadowing must not mutate parent)", v)
	}
}

func TestGetMissingReturnsFalse(t *testing.T) {
	root := New(nil)
	if _, ok := root.Get("nope"); ok {
		t.Fatal("Get(nope) ok = true, want false")
	}
}

func TestImportWholesale(t *testing.T) {
	src := New(nil)
	src.Set("a", 1)
	src.Set("b", 2)

	dst := New(nil)
	if err := dst.Import(src, nil); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if v, _ := dst.Get("a"); v != 1 {
		t.Fatalf("a = %v, want 1", v)
	}
	if v, _ := dst.Get("b"); v != 2 {
		t.Fatalf("b = %v, want 2", v)
	}
}

func TestImportSelective(t *testing.T) {
	src := New(nil)
	src.Set("a", 1)
	src.Set("b", 2)

	dst := New(nil)
	if err := dst.Import(src, []string{"a"}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if _, ok := dst.Get("b"); ok {
		t.Fatal("selective import pulled in b, should not have")
	}
}

func TestImportSelectiveMissingNameErrors(t *testing.T) {
	src := New(nil)
	dst := New(nil)
	if err := dst.Import(src, []string{"missing"}); err == nil {
		t.Fatal("expected an error importing an undefined name")
	}
}

func TestRemove(t *testing.T) {
	root := New(nil)
	root.Set("a", 1)
	root.Remove("a")
	if _, ok := root.Get("a"); ok {
		t.Fatal("a still resolves after Remove")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	root := New(nil)
	root.Set("a", 1)
	clone := root.Copy()
	clone.Set("a", 2)

	if v, _ := root.Get("a"); v != 1 {
		t.Fatalf("original mutated through clone: a = %v, want 1", v)
	}
	if v, _ := clone.Get("a"); v != 2 {
		t.Fatalf("clone a = %v, want 2", v)
	}
}

func TestGenChildFlattensLocalsAndSharesGlobals(t *testing.T) {
	globals := map[string]any{"PI": 3.14}
	root := NewRoot("doc", "/tmp/doc.pdfo", globals)
	child := root.GenChild("mymacro", map[string]any{"name": "World"})

	if child.Locals()["name"] != "World" {
		t.Fatalf("child locals[name] = %v, want World", child.Locals()["name"])
	}
	if child.Globals()["PI"] != 3.14 {
		t.Fatal("child does not see parent globals")
	}
	// Mutating the shared globals map through the child must be visible to
	// the parent — globals are process-wide, not lexically scoped.
	child.Globals()["PI"] = 3.14159
	if root.Globals()["PI"] != 3.14159 {
		t.Fatal("globals are not actually shared between parent and child")
	}
}

func TestGenChildSymbolsAreScoped(t *testing.T) {
	root := NewRoot("doc", "/tmp/doc.pdfo", map[string]any{})
	root.Symbols.Set("outer", "macro")
	child := root.GenChild("inner", nil)
	child.Symbols.Set("local", "macro")

	if _, ok := child.Symbols.Get("outer"); !ok {
		t.Fatal("child should see outer's macros through the parent chain")
	}
	if _, ok := root.Symbols.Get("local"); ok {
		t.Fatal("a name defined inside a macro body must not leak to the caller's scope")
	}
}

func TestAppendItemsAccumulates(t *testing.T) {
	c := NewRoot("doc", "/tmp/doc.pdfo", map[string]any{})
	if len(c.Items()) != 0 {
		t.Fatal("new Context should start with no items")
	}
	c.AppendItems(stream.Item{})
	c.AppendItems(stream.Item{}, stream.Item{})
	if len(c.Items()) != 3 {
		t.Fatalf("len(Items()) = %d after appending 1 then 2 items, want 3", len(c.Items()))
	}
}
