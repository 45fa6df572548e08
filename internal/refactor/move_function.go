// Move-function (spec §4.M): relocate a top-level function from one
// module to another, maintaining imports, the source/target exposing
// lists, and rewriting call sites, after a cycle check.
package refactor

import (
	"fmt"
	"strings"

	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/classifier"
	"github.com/elmlsp/elmlsp/internal/lspcore"
	"github.com/elmlsp/elmlsp/internal/refs"
	"github.com/elmlsp/elmlsp/internal/resolver"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/workspace"
)

// MoveSummary reports what a successful MoveFunction call did, per spec
// §4.M step 8.
type MoveSummary struct {
	SourceModule      string
	TargetModule      string
	FunctionName      string
	ReferencesUpdated int
}

// MoveFunction computes the edit set for relocating functionName from
// sourceURI to the module declared in targetURI.
func MoveFunction(idx *workspace.Index, sourceURI, functionName, targetURI string) (EditSet, MoveSummary, error) {
	var zero MoveSummary

	if IsProtectedFile(idx.Manifest(), sourceURI) {
		return nil, zero, lspcore.Preconditionf("cannot move functions out of protected file %q", sourceURI)
	}

	srcMod, ok := idx.Module(sourceURI)
	if !ok {
		return nil, zero, lspcore.InvalidInputf("unknown document %q", sourceURI)
	}
	tgtMod, ok := idx.Module(targetURI)
	if !ok {
		return nil, zero, lspcore.Preconditionf("target module not found: %q", targetURI)
	}

	fnSym, ok := srcMod.File.Root.Local(functionName)
	if !ok || fnSym.Kind != binder.KindFunction {
		return nil, zero, lspcore.Preconditionf("symbol not found: %q in %s", functionName, sourceURI)
	}

	if wouldCreateCycle(idx, tgtMod.File.ModuleName, srcMod.File.ModuleName) {
		return nil, zero, lspcore.Preconditionf("moving %q from %q to %q would create an import cycle", functionName, srcMod.File.ModuleName, tgtMod.File.ModuleName)
	}

	leftNode, ok := idx.NodeAt(sourceURI, fnSym.DefiningNodeID)
	if !ok {
		return nil, zero, lspcore.Internalf("missing node for %q", functionName)
	}
	declNode := leftNode.Parent()
	if declNode == nil || declNode.Kind() != syntax.KindValueDeclaration {
		return nil, zero, lspcore.Internalf("%q is not a top-level declaration", functionName)
	}

	fnRange := declRangeWithAnnotation(srcMod, declNode, functionName)
	fnText := trimTrailingBlankLines(sliceSource(srcMod.Tree.Source.Contents, fnRange))

	es := EditSet{}

	srcTI := newTextIndex(srcMod.Tree.Source.Contents)
	es.Add(sourceURI, Edit{Range: fnRange, NewText: ""})
	insertAt := importInsertionPoint(srcMod.Tree.Root)
	es.Add(sourceURI, Edit{
		Range:   syntax.Range{Start: insertAt, End: insertAt},
		NewText: fmt.Sprintf("import %s exposing (%s)\n", tgtMod.File.ModuleName, functionName),
	})
	if edit, ok := removeFromExposingList(srcTI, srcMod.Tree.Root, functionName); ok {
		es.Add(sourceURI, edit)
	}

	tgtInsertAt := importInsertionPoint(tgtMod.Tree.Root)
	es.Add(targetURI, Edit{
		Range:   syntax.Range{Start: tgtInsertAt, End: tgtInsertAt},
		NewText: "\n\n" + fnText + "\n",
	})
	if edit, ok := addToExposingList(tgtMod.Tree.Root, functionName); ok {
		es.Add(targetURI, edit)
	}

	needed := sourceDependencies(declNode, srcMod.File, idx, functionName)
	if len(needed) > 0 && !targetAlreadyImports(tgtMod.File, srcMod.File.ModuleName) {
		names := strings.Join(needed, ", ")
		es.Add(targetURI, Edit{
			Range:   syntax.Range{Start: tgtInsertAt, End: tgtInsertAt},
			NewText: fmt.Sprintf("import %s exposing (%s)\n", srcMod.File.ModuleName, names),
		})
	}

	def := &classifier.DefinitionSymbol{Name: functionName, Kind: binder.KindFunction, URI: sourceURI, NodeID: leftNode.ID(), Range: leftNode.Range()}
	updated := 0
	for _, ref := range refs.Find(idx, def) {
		if ref.URI == sourceURI || ref.URI == targetURI {
			continue
		}
		refMod, ok := idx.Module(ref.URI)
		if !ok {
			continue
		}
		node, ok := idx.NodeAt(ref.URI, ref.NodeID)
		if !ok {
			continue
		}
		newText := functionName
		es.Add(ref.URI, Edit{Range: node.Range(), NewText: newText})
		if !targetAlreadyImports(refMod.File, tgtMod.File.ModuleName) {
			at := importInsertionPoint(refMod.Tree.Root)
			es.Add(ref.URI, Edit{
				Range:   syntax.Range{Start: at, End: at},
				NewText: fmt.Sprintf("import %s exposing (%s)\n", tgtMod.File.ModuleName, functionName),
			})
		}
		updated++
	}

	es.SortAll()

	return es, MoveSummary{
		SourceModule:      srcMod.File.ModuleName,
		TargetModule:      tgtMod.File.ModuleName,
		FunctionName:      functionName,
		ReferencesUpdated: updated,
	}, nil
}

// wouldCreateCycle runs a DFS over the import graph starting at
// targetModule, reporting whether sourceModule is reachable — since after
// the move, target's newly-added dependency on nothing changes, but
// source gains an import of target, a cycle exists exactly when target
// (transitively) already imports source (spec §4.M step 3 / scenario S4).
func wouldCreateCycle(idx *workspace.Index, targetModule, sourceModule string) bool {
	visited := map[string]bool{}
	var dfs func(mod string) bool
	dfs = func(mod string) bool {
		if mod == sourceModule {
			return true
		}
		if visited[mod] {
			return false
		}
		visited[mod] = true
		m, ok := idx.ModuleByName(mod)
		if !ok {
			return false
		}
		for _, imp := range m.File.Imports {
			if dfs(imp.ModuleName) {
				return true
			}
		}
		return false
	}
	return dfs(targetModule)
}

// declRangeWithAnnotation extends a value_declaration's own range
// backward to include a preceding type_annotation for the same name, if
// one is a sibling in the file root.
func declRangeWithAnnotation(mod *workspace.Module, declNode syntax.Node, name string) syntax.Range {
	r := declNode.Range()
	for _, sib := range mod.Tree.Root.Children() {
		if sib.Kind() != syntax.KindTypeAnnotation {
			continue
		}
		if nameNode := sib.ChildByField("name"); nameNode != nil && nameNode.Text("") == name {
			r = syntax.Merge(sib.Range(), r)
			break
		}
	}
	return r
}

func sliceSource(src string, r syntax.Range) string {
	ti := newTextIndex(src)
	return src[ti.offset(r.Start):ti.offset(r.End)]
}

func trimTrailingBlankLines(s string) string {
	for strings.HasSuffix(s, "\n\n") {
		s = s[:len(s)-1]
	}
	return strings.TrimRight(s, "\n")
}

// importInsertionPoint is the point just after the file's last import
// clause, or just after the module declaration if it has none.
func importInsertionPoint(root syntax.Node) syntax.Point {
	var moduleDeclEnd syntax.Point
	var lastImportEnd syntax.Point
	hasImport := false
	for _, c := range root.Children() {
		switch c.Kind() {
		case syntax.KindModuleDeclaration:
			moduleDeclEnd = syntax.Point{Line: c.Range().End.Line + 1, Column: 1}
		case syntax.KindImportClause:
			hasImport = true
			lastImportEnd = syntax.Point{Line: c.Range().End.Line + 1, Column: 1}
		}
	}
	if hasImport {
		return lastImportEnd
	}
	return moduleDeclEnd
}

// removeFromExposingList deletes name from the module's own exposing
// list, preserving comma structure, unless it's the list's only entry (in
// which case removing it would empty the public surface entirely, so the
// spec leaves it alone rather than break the module).
func removeFromExposingList(ti *textIndex, root syntax.Node, name string) (Edit, bool) {
	moduleDecl := findChild(root, syntax.KindModuleDeclaration)
	if moduleDecl == nil {
		return Edit{}, false
	}
	expList := moduleDecl.ChildByField("exposing")
	if expList == nil {
		return Edit{}, false
	}
	entries := expList.Children()
	if len(entries) <= 1 {
		return Edit{}, false
	}
	var target syntax.Node
	for _, e := range entries {
		if e.Kind() == syntax.KindExposedValue && e.Text("") == name {
			target = e
			break
		}
	}
	if target == nil {
		return Edit{}, false
	}
	return removeListElement(ti, target, entries), true
}

// addToExposingList appends name to the module declaration's exposing
// list, unless it already exposes everything via "..".
func addToExposingList(root syntax.Node, name string) (Edit, bool) {
	moduleDecl := findChild(root, syntax.KindModuleDeclaration)
	if moduleDecl == nil {
		return Edit{}, false
	}
	expList := moduleDecl.ChildByField("exposing")
	if expList == nil {
		return Edit{}, false
	}
	for _, e := range expList.Children() {
		if e.Kind() == syntax.KindDoubleDot {
			return Edit{}, false
		}
	}
	end := expList.Range().End
	insertAt := syntax.Point{Line: end.Line, Column: end.Column - 1}
	if insertAt.Column < 1 {
		insertAt.Column = 1
	}
	return Edit{Range: syntax.Range{Start: insertAt, End: insertAt}, NewText: ", " + name}, true
}

func findChild(root syntax.Node, kind syntax.Kind) syntax.Node {
	for _, c := range root.Children() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func targetAlreadyImports(file *binder.File, moduleName string) bool {
	for _, imp := range file.Imports {
		if imp.ModuleName == moduleName {
			return true
		}
	}
	return false
}

// sourceDependencies walks the moved declaration's subtree collecting
// every top-level name it references that is itself declared (and
// exposed) in the source module, other than the function being moved —
// these must follow it to the target as an import (spec §4.M step 6).
func sourceDependencies(declNode syntax.Node, srcFile *binder.File, idx *workspace.Index, movedName string) []string {
	seen := map[string]bool{}
	var out []string
	syntax.Walk(declNode, func(n syntax.Node) bool {
		if n.Kind() != syntax.KindValueExpr {
			return true
		}
		name := n.Text("")
		if name == "" || name == movedName || seen[name] {
			return true
		}
		def, ok := resolver.ResolveName(srcFile, moduleByNameAdapter{idx}, n, name)
		if !ok || def.URI != srcFile.URI || def.Symbol == nil || def.Symbol.Kind != binder.KindFunction {
			return true
		}
		if _, exposed := srcFile.Exposing[name]; !exposed {
			return true
		}
		seen[name] = true
		out = append(out, name)
		return true
	})
	return out
}

type moduleByNameAdapter struct{ idx *workspace.Index }

func (a moduleByNameAdapter) FileByModule(name string) (*binder.File, bool) {
	m, ok := a.idx.ModuleByName(name)
	if !ok {
		return nil, false
	}
	return m.File, true
}
