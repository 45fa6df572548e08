// Remove-field (spec §4.K): given a record-shaped type alias and one of
// its fields, delete the field's declaration and rewrite every usage site
// it can find. Grounded on the same classify-each-usage-site shape the
// reference finder already uses, just with an edit table instead of a
// rename.
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

const debugTodoFieldAccess = `(Debug.todo "FIXME: Field Removal: %s")`
const debugTodoFieldAccessor = `(\_ -> Debug.todo "FIXME: Field Removal: %s")`

// RemoveField computes the edit set for deleting fieldName from the
// record-shaped type alias typeName declared in uri (spec §4.K).
func RemoveField(idx *workspace.Index, uri, typeName, fieldName string) (EditSet, string, error) {
	mod, ok := idx.Module(uri)
	if !ok {
		return nil, "", lspcore.InvalidInputf("unknown document %q", uri)
	}
	aliasSym, ok := mod.File.Root.Local(typeName)
	if !ok || aliasSym.Kind != binder.KindTypeAlias {
		return nil, "", lspcore.Preconditionf("%q is not a type alias in %s", typeName, uri)
	}
	aliasNode, ok := idx.NodeAt(uri, aliasSym.DefiningNodeID)
	if !ok {
		return nil, "", lspcore.Internalf("missing node for type alias %q", typeName)
	}
	typeExpr := aliasNode.ChildByField("typeExpr")
	if typeExpr == nil || typeExpr.Kind() != syntax.KindRecordType {
		return nil, "", lspcore.Preconditionf("%q is not a record type alias", typeName)
	}
	fields := syntax.ChildrenOfKind(typeExpr, syntax.KindFieldType)
	if len(fields) < 2 {
		return nil, "", lspcore.Preconditionf("cannot remove the only field of %q", typeName)
	}

	fieldIdx := -1
	var fieldNode syntax.Node
	for i, f := range fields {
		if n := f.ChildByField("name"); n != nil && n.Text("") == fieldName {
			fieldIdx = i
			fieldNode = f
			break
		}
	}
	if fieldNode == nil {
		return nil, "", lspcore.Preconditionf("type alias %q has no field %q", typeName, fieldName)
	}

	def := &classifier.DefinitionSymbol{
		Name: fieldName, Kind: binder.KindFieldType, URI: uri,
		NodeID: fieldNode.ID(), Range: fieldNode.Range(), TypeContext: typeName,
	}

	es := EditSet{}
	counts := map[string]int{}
	for _, ref := range refs.Find(idx, def) {
		refMod, ok := idx.Module(ref.URI)
		if !ok {
			continue
		}
		ti := newTextIndex(refMod.Tree.Source.Contents)

		if ref.URI == uri && ref.NodeID == fieldNode.ID() {
			es.Add(ref.URI, aliasFieldRemovalEdit(ti, fields, fieldIdx))
			counts["declaration"]++
			continue
		}

		node, ok := idx.NodeAt(ref.URI, ref.NodeID)
		if !ok {
			continue
		}
		edit, category, ok := fieldUsageEdit(ti, node, fieldName)
		if !ok {
			continue
		}
		es.Add(ref.URI, edit)
		counts[category]++
	}
	es.SortAll()

	summary := fmt.Sprintf(
		"Removed field %q from %q: %d declaration, %d record literal(s), %d record update(s), %d record pattern(s), %d field access(es), %d field accessor(s)",
		fieldName, typeName, counts["declaration"], counts["literal"], counts["update"], counts["pattern"], counts["access"], counts["accessor"])
	return es, summary, nil
}

// aliasFieldRemovalEdit deletes a field_type's whole line from a type
// alias declaration. If it's the first field and a sibling follows, the
// sibling's leading ',' is rewritten to '{' so the record-type braces
// stay balanced (spec §4.K table, first row).
func aliasFieldRemovalEdit(ti *textIndex, fields []syntax.Node, fieldIdx int) Edit {
	field := fields[fieldIdx]
	lineStart := ti.lineStartOf(field.Range().Start.Line)
	lineEnd := ti.lineStartOf(field.Range().Start.Line + 1)
	deleteRange := ti.rangeFrom(lineStart, lineEnd)

	if fieldIdx != 0 || fieldIdx+1 >= len(fields) {
		return Edit{Range: deleteRange, NewText: ""}
	}

	// First field, with a following sibling: find and rewrite that
	// sibling's leading comma. Since a single Edit can only touch one
	// contiguous range, fold both changes into one edit spanning from this
	// field's line start through the sibling's comma.
	next := fields[fieldIdx+1]
	nextLineStart := ti.lineStartOf(next.Range().Start.Line)
	commaIdx, found := ti.firstNonSpace(nextLineStart)
	if !found || ti.src[commaIdx] != ',' {
		return Edit{Range: deleteRange, NewText: ""}
	}
	replaceEnd := commaIdx + 1
	prefix := ti.src[nextLineStart:commaIdx]
	return Edit{Range: ti.rangeFrom(lineStart, replaceEnd), NewText: prefix + "{"}
}

// fieldUsageEdit classifies a single usage node (the field-name node the
// reference finder resolved to) and computes its edit, per spec §4.K's
// table. ok is false for a context the table has no entry for (e.g. the
// node's parent vanished), which the caller skips.
func fieldUsageEdit(ti *textIndex, node syntax.Node, fieldName string) (Edit, string, bool) {
	parent := node.Parent()
	if parent == nil {
		return Edit{}, "", false
	}
	switch parent.Kind() {
	case syntax.KindFieldExpr:
		recordExpr := parent.Parent()
		if recordExpr == nil {
			return Edit{}, "", false
		}
		isUpdate := recordExpr.ChildByField("base") != nil
		siblings := syntax.ChildrenOfKind(recordExpr, syntax.KindFieldExpr)
		if isUpdate && len(siblings) == 1 {
			base := recordExpr.ChildByField("base")
			return Edit{Range: recordExpr.Range(), NewText: base.Text("")}, "update", true
		}
		category := "literal"
		if isUpdate {
			category = "update"
		}
		return removeListElement(ti, parent, siblings), category, true

	case syntax.KindRecordPattern:
		siblings := syntax.ChildrenOfKind(parent, syntax.KindLowerPattern)
		if len(siblings) == 1 {
			return Edit{Range: parent.Range(), NewText: "_"}, "pattern", true
		}
		return removeListElement(ti, node, siblings), "pattern", true

	case syntax.KindFieldAccessExpr:
		return Edit{Range: parent.Range(), NewText: fmt.Sprintf(debugTodoFieldAccess, fieldName)}, "access", true

	case syntax.KindFieldAccessorFunctionExpr:
		return Edit{Range: parent.Range(), NewText: fmt.Sprintf(debugTodoFieldAccessor, fieldName)}, "accessor", true

	default:
		return Edit{}, "", false
	}
}

// removeListElement deletes element's own range, extended to consume the
// trailing comma that follows it (or, if element is the last in the
// list, the leading comma that precedes it instead) so list punctuation
// stays balanced.
func removeListElement(ti *textIndex, element syntax.Node, siblings []syntax.Node) Edit {
	startOff := ti.offset(element.Range().Start)
	endOff := ti.offset(element.Range().End)

	if commaIdx, isComma, found := ti.nextSeparator(endOff); found && isComma {
		return Edit{Range: ti.rangeFrom(startOff, commaIdx+1), NewText: ""}
	}
	if commaIdx, found := ti.prevComma(startOff); found {
		return Edit{Range: ti.rangeFrom(commaIdx, endOff), NewText: ""}
	}
	return Edit{Range: ti.rangeFrom(startOff, endOff), NewText: ""}
}
