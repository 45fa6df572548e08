// Remove-variant (spec §4.L): delete a union_variant from its
// type_declaration, rewrite every use site (constructor application or
// pattern-match branch), and prune any wildcard branch a deletion just
// made useless.
package refactor

import (
	"fmt"

	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/classifier"
	"github.com/elmlsp/elmlsp/internal/lspcore"
	"github.com/elmlsp/elmlsp/internal/refs"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/workspace"
)

const debugTodoVariant = `(Debug.todo "FIXME: Variant Removal: %s")`

// RemoveVariant computes the edit set for deleting variantName (at
// variantIndex of totalVariants, 0-based/pre-removal-count, as reported by
// the caller per spec §6's executeCommand contract) from the sum type
// typeName declared in uri.
func RemoveVariant(idx *workspace.Index, uri, typeName, variantName string, variantIndex, totalVariants int) (EditSet, string, error) {
	mod, ok := idx.Module(uri)
	if !ok {
		return nil, "", lspcore.InvalidInputf("unknown document %q", uri)
	}
	typeSym, ok := mod.File.Root.Local(typeName)
	if !ok || typeSym.Kind != binder.KindType {
		return nil, "", lspcore.Preconditionf("%q is not a union type in %s", typeName, uri)
	}
	typeNode, ok := idx.NodeAt(uri, typeSym.DefiningNodeID)
	if !ok {
		return nil, "", lspcore.Internalf("missing node for type %q", typeName)
	}
	variants := syntax.ChildrenOfKind(typeNode, syntax.KindUnionVariant)
	if len(variants) < 2 {
		return nil, "", lspcore.Preconditionf("cannot remove the only variant of %q", typeName)
	}

	vIdx := -1
	var variantNode syntax.Node
	for i, v := range variants {
		if n := v.ChildByField("name"); n != nil && n.Text("") == variantName {
			vIdx = i
			variantNode = v
			break
		}
	}
	if variantNode == nil {
		return nil, "", lspcore.Preconditionf("type %q has no variant %q", typeName, variantName)
	}
	if variantIndex >= 0 && variantIndex != vIdx {
		return nil, "", lspcore.InvalidInputf("variant index %d does not match %q's actual position %d", variantIndex, variantName, vIdx)
	}

	def := &classifier.DefinitionSymbol{
		Name: variantName, Kind: binder.KindUnionConstructor, URI: uri,
		NodeID: variantNode.ID(), Range: variantNode.Range(), TypeContext: typeName,
	}

	es := EditSet{}
	deletedBranches := map[string]map[syntax.NodeID]bool{}
	counts := map[string]int{}

	for _, ref := range refs.Find(idx, def) {
		refMod, ok := idx.Module(ref.URI)
		if !ok {
			continue
		}
		ti := newTextIndex(refMod.Tree.Source.Contents)

		if ref.URI == uri && ref.NodeID == variantNode.ID() {
			es.Add(ref.URI, variantDeclRemovalEdit(ti, variants, vIdx))
			counts["declaration"]++
			continue
		}

		node, ok := idx.NodeAt(ref.URI, ref.NodeID)
		if !ok {
			continue
		}
		edit, branchID, category, ok := variantUsageEdit(ti, node, variantName)
		if !ok {
			continue
		}
		es.Add(ref.URI, edit)
		counts[category]++
		if branchID != 0 {
			if deletedBranches[ref.URI] == nil {
				deletedBranches[ref.URI] = map[syntax.NodeID]bool{}
			}
			deletedBranches[ref.URI][branchID] = true
		}
	}

	// Useless-wildcard pruning (spec §4.L step 3): only needed in files
	// where at least one pattern-match branch for this variant was deleted.
	pruned := 0
	for uri2, branches := range deletedBranches {
		refMod, ok := idx.Module(uri2)
		if !ok {
			continue
		}
		ti := newTextIndex(refMod.Tree.Source.Contents)
		syntax.Walk(refMod.Tree.Root, func(n syntax.Node) bool {
			if n.Kind() != syntax.KindCaseOfExpr {
				return true
			}
			branchNodes := syntax.ChildrenOfKind(n, syntax.KindCaseOfBranch)
			affected := false
			for _, b := range branchNodes {
				if branches[b.ID()] {
					affected = true
					break
				}
			}
			if !affected {
				return true
			}
			explicit := map[string]bool{}
			var wildcard syntax.Node
			for _, b := range branchNodes {
				if branches[b.ID()] {
					continue
				}
				pattern := b.ChildByField("pattern")
				if pattern == nil {
					continue
				}
				switch pattern.Kind() {
				case syntax.KindUnionPattern:
					if nameNode := pattern.ChildByField("name"); nameNode != nil {
						explicit[nameNode.Text("")] = true
					}
				case syntax.KindWildcardPattern, syntax.KindLowerPattern:
					wildcard = b
				}
			}
			if wildcard != nil && len(explicit) == totalVariants-1 {
				es.Add(uri2, branchRemovalEdit(ti, wildcard))
				pruned++
			}
			return true
		})
	}

	es.SortAll()

	summary := fmt.Sprintf(
		"Removed variant %q from %q: %d declaration, %d constructor use(s), %d pattern branch(es), %d wildcard branch(es) pruned",
		variantName, typeName, counts["declaration"], counts["constructor"], counts["pattern"], pruned)
	return es, summary, nil
}

// variantDeclRemovalEdit mirrors aliasFieldRemovalEdit's first/non-first
// splice, using '=' / '|' instead of '{' / ','.
func variantDeclRemovalEdit(ti *textIndex, variants []syntax.Node, vIdx int) Edit {
	variant := variants[vIdx]
	lineStart := ti.lineStartOf(variant.Range().Start.Line)
	lineEnd := ti.lineStartOf(variant.Range().Start.Line + 1)
	deleteRange := ti.rangeFrom(lineStart, lineEnd)

	if vIdx != 0 || vIdx+1 >= len(variants) {
		return Edit{Range: deleteRange, NewText: ""}
	}

	next := variants[vIdx+1]
	nextLineStart := ti.lineStartOf(next.Range().Start.Line)
	barIdx, found := ti.firstNonSpace(nextLineStart)
	if !found || ti.src[barIdx] != '|' {
		return Edit{Range: deleteRange, NewText: ""}
	}
	prefix := ti.src[nextLineStart:barIdx]
	return Edit{Range: ti.rangeFrom(lineStart, barIdx+1), NewText: prefix + "="}
}

// variantUsageEdit classifies one resolved use-site of a constructor and
// returns its edit, the case_of_branch node id it deletes (0 if none, used
// for wildcard-pruning bookkeeping), and a summary category.
func variantUsageEdit(ti *textIndex, node syntax.Node, variantName string) (Edit, syntax.NodeID, string, bool) {
	parent := node.Parent()
	if parent == nil {
		return Edit{}, 0, "", false
	}

	if parent.Kind() == syntax.KindUnionPattern {
		branch := syntax.FindAncestor(parent, func(n syntax.Node) bool {
			return n.Kind() == syntax.KindCaseOfBranch
		})
		if branch == nil {
			return Edit{}, 0, "", false
		}
		return branchRemovalEdit(ti, branch), branch.ID(), "pattern", true
	}

	if parent.Kind() == syntax.KindFunctionCallExpr && node.FieldName() == "callee" {
		return Edit{Range: parent.Range(), NewText: fmt.Sprintf(debugTodoVariant, variantName)}, 0, "constructor", true
	}

	// Bare 0-arity constructor reference used as a value, not inside any
	// call or pattern.
	return Edit{Range: node.Range(), NewText: fmt.Sprintf(debugTodoVariant, variantName)}, 0, "constructor", true
}

// branchRemovalEdit deletes a whole case_of_branch, from column 0 of its
// own line to the start of the following line (spec §4.L step 2).
func branchRemovalEdit(ti *textIndex, branch syntax.Node) Edit {
	start := ti.lineStartOf(branch.Range().Start.Line)
	end := ti.lineStartOf(branch.Range().End.Line + 1)
	return Edit{Range: ti.rangeFrom(start, end), NewText: ""}
}
