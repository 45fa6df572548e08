package binder

import (
	"strings"

	"github.com/elmlsp/elmlsp/internal/set"
	"github.com/elmlsp/elmlsp/internal/syntax"
)

// Bind walks tree and produces its File binding result (spec §4.D).
func Bind(tree syntax.Tree) *File {
	f := &File{
		URI:         tree.Source.Path,
		NonShadowable: set.NewSet[string](),
		Exposing:       map[string]*BoundSymbol{},
		ByNodeID:       map[syntax.NodeID]*BoundSymbol{},
		ContainerOf:    map[syntax.NodeID]*Container{},
		TypeContainers: map[syntax.NodeID]*Container{},
	}

	root := NewContainer(ContainerFile, tree.Root, tree.Root, nil)
	f.Root = root

	// Default imports: a fixed set of pseudo-imports, bound to the
	// reserved sentinel node id (spec §4.D).
	for _, mod := range DefaultImportModules {
		sym := &BoundSymbol{Name: mod, DefiningNodeID: DefaultImportNodeID, Kind: KindImport}
		root.Bind(sym)
	}

	b := &binderState{file: f}
	b.bindNode(tree.Root, root)

	b.resolveExposing()

	return f
}

type binderState struct {
	file *File
}

func (b *binderState) bindSymbol(c *Container, sym *BoundSymbol) {
	c.Bind(sym)
	b.file.ByNodeID[sym.DefiningNodeID] = sym
	b.file.ContainerOf[sym.DefiningNodeID] = c
}

func (b *binderState) bindNode(n syntax.Node, c *Container) {
	switch n.Kind() {
	case syntax.KindModuleDeclaration:
		b.file.ModuleName = moduleNameOf(n)
		if expList := n.ChildByField("exposing"); expList != nil {
			b.file.ModuleExposing = parseExposingList(expList)
		}
		return // no further descent needed; module decl has no bindable children

	case syntax.KindImportClause:
		ic := parseImportClause(n)
		b.file.Imports = append(b.file.Imports, ic)
		// Bind the import's effective name so qualified references
		// "Alias.x" resolve; the defining node is the import clause
		// itself (not a sentinel), so go-to-definition on an alias can
		// land on the import statement.
		b.bindSymbol(c, &BoundSymbol{Name: ic.EffectiveName(), DefiningNodeID: n.ID(), Kind: KindImport})
		return

	case syntax.KindValueDeclaration:
		b.bindValueDecl(n, c)
		return

	case syntax.KindTypeDeclaration:
		b.bindTypeDecl(n, c)
		return

	case syntax.KindTypeAliasDeclaration:
		b.bindTypeAliasDecl(n, c)
		return

	case syntax.KindPortAnnotation:
		if nameNode := n.ChildByField("name"); nameNode != nil {
			name := identText(nameNode)
			sym := &BoundSymbol{Name: name, DefiningNodeID: n.ID(), Kind: KindPort}
			b.bindSymbol(c, sym)
			b.file.NonShadowable.Add(name)
		}
		return

	case syntax.KindInfixDeclaration:
		b.bindInfixDecl(n, c)
		return

	case syntax.KindLetInExpr:
		letContainer := NewContainer(ContainerLetIn, n, n, c)
		b.file.ContainerOf[n.ID()] = letContainer
		for _, decl := range n.Children() {
			if decl.Kind() == syntax.KindValueDeclaration {
				b.bindLetBoundValueDecl(decl, letContainer)
			}
		}
		if body := n.ChildByField("body"); body != nil {
			b.bindNode(body, letContainer)
		}
		return

	case syntax.KindAnonymousFunctionExpr:
		lambdaContainer := NewContainer(ContainerLambda, n, n, c)
		b.file.ContainerOf[n.ID()] = lambdaContainer
		for _, p := range syntax.ChildrenOfKind(n, syntax.KindLowerPattern) {
			b.bindParamPattern(p, lambdaContainer, KindLambdaParameter)
		}
		for _, p := range n.Children() {
			if p.FieldName() == "param" && p.Kind() != syntax.KindLowerPattern {
				b.bindParamPattern(p, lambdaContainer, KindLambdaParameter)
			}
		}
		if body := n.ChildByField("body"); body != nil {
			b.bindNode(body, lambdaContainer)
		}
		return

	case syntax.KindCaseOfExpr:
		if scrutinee := n.ChildByField("expr"); scrutinee != nil {
			b.bindNode(scrutinee, c)
		}
		for _, branch := range syntax.ChildrenOfKind(n, syntax.KindCaseOfBranch) {
			b.bindCaseBranch(branch, c)
		}
		return
	}

	for _, child := range n.Children() {
		b.bindNode(child, c)
	}
}

func (b *binderState) bindCaseBranch(n syntax.Node, parent *Container) {
	body := n.ChildByField("body")
	branchContainer := NewContainer(ContainerCaseBranch, n, body, parent)
	b.file.ContainerOf[n.ID()] = branchContainer
	if pattern := n.ChildByField("pattern"); pattern != nil {
		b.bindParamPattern(pattern, branchContainer, KindCasePattern)
	}
	if body != nil {
		b.bindNode(body, branchContainer)
	}
}

func (b *binderState) bindValueDecl(n syntax.Node, c *Container) {
	left := n.ChildByField("functionDeclarationLeft")
	body := n.ChildByField("body")

	var name string
	var nameNode syntax.Node
	if left != nil {
		nameNode = left.ChildByField("name")
	}
	if nameNode != nil {
		name = identText(nameNode)
	}

	declContainer := NewContainer(ContainerValueDecl, n, body, c)
	b.file.ContainerOf[n.ID()] = declContainer

	if name != "" {
		sym := &BoundSymbol{Name: name, DefiningNodeID: left.ID(), Kind: KindFunction}
		b.bindSymbol(c, sym)
		b.file.NonShadowable.Add(name)
	}

	if left != nil {
		for _, p := range left.Children() {
			if p.FieldName() == "param" {
				b.bindParamPattern(p, declContainer, KindFunctionParameter)
			}
		}
	}

	if body != nil {
		b.bindNode(body, declContainer)
	}
}

// bindLetBoundValueDecl binds a value_declaration nested directly inside
// a let_in_expr. Per spec §4.H its parameters are FunctionParameter kind
// scoped to the whole let_in_expr (not just this binding's own body).
func (b *binderState) bindLetBoundValueDecl(n syntax.Node, letContainer *Container) {
	left := n.ChildByField("functionDeclarationLeft")
	body := n.ChildByField("body")

	var name string
	var nameNode syntax.Node
	if left != nil {
		nameNode = left.ChildByField("name")
	}
	if nameNode != nil {
		name = identText(nameNode)
	}

	declContainer := NewContainer(ContainerValueDecl, n, letContainer.ScopeNode, letContainer)
	b.file.ContainerOf[n.ID()] = declContainer

	if name != "" {
		sym := &BoundSymbol{Name: name, DefiningNodeID: left.ID(), Kind: KindFunction}
		b.bindSymbol(letContainer, sym)
	}

	if left != nil {
		for _, p := range left.Children() {
			if p.FieldName() == "param" {
				b.bindParamPattern(p, declContainer, KindFunctionParameter)
			}
		}
	}

	if body != nil {
		b.bindNode(body, declContainer)
	}
}

// bindParamPattern descends through tuple/record/union/list pattern
// structure, binding each lower_pattern leaf it finds (spec §4.D).
// Record-pattern fields are always bound with KindRecordPatternField
// regardless of the surrounding kind, since the spec gives them distinct
// reference-finding treatment (§4.I).
func (b *binderState) bindParamPattern(n syntax.Node, c *Container, kind SymbolKind) {
	switch n.Kind() {
	case syntax.KindLowerPattern:
		name := identText(n)
		if name == "" || name == "_" {
			return
		}
		b.bindSymbol(c, &BoundSymbol{Name: name, DefiningNodeID: n.ID(), Kind: kind})
	case syntax.KindTuplePattern, syntax.KindListPattern:
		for _, child := range n.Children() {
			b.bindParamPattern(child, c, kind)
		}
	case syntax.KindUnionPattern:
		for _, child := range n.Children() {
			if child.FieldName() == "arg" {
				b.bindParamPattern(child, c, kind)
			}
		}
	case syntax.KindRecordPattern:
		for _, child := range n.Children() {
			if child.Kind() == syntax.KindLowerPattern {
				name := identText(child)
				if name == "" {
					continue
				}
				b.bindSymbol(c, &BoundSymbol{Name: name, DefiningNodeID: child.ID(), Kind: KindRecordPatternField})
			}
		}
	default:
		// wildcard / literal sub-patterns bind nothing
	}
}

func (b *binderState) bindTypeDecl(n syntax.Node, c *Container) {
	nameNode := n.ChildByField("name")
	if nameNode == nil {
		return
	}
	name := identText(nameNode)

	var ctors []string
	variants := syntax.ChildrenOfKind(n, syntax.KindUnionVariant)
	for _, v := range variants {
		if vn := v.ChildByField("name"); vn != nil {
			ctors = append(ctors, identText(vn))
		}
	}

	sym := &BoundSymbol{Name: name, DefiningNodeID: n.ID(), Kind: KindType, Constructors: ctors}
	b.bindSymbol(c, sym)
	b.file.NonShadowable.Add(name)

	typeContainer := NewContainer(ContainerTypeDecl, n, n, c)
	b.file.TypeContainers[n.ID()] = typeContainer
	for _, tv := range syntax.ChildrenOfKind(n, syntax.KindTypeVariable) {
		b.bindSymbol(typeContainer, &BoundSymbol{Name: identText(tv), DefiningNodeID: tv.ID(), Kind: KindTypeVariable})
	}

	for _, v := range variants {
		vn := v.ChildByField("name")
		if vn == nil {
			continue
		}
		vname := identText(vn)
		ctorSym := &BoundSymbol{Name: vname, DefiningNodeID: v.ID(), Kind: KindUnionConstructor}
		b.bindSymbol(c, ctorSym)
		b.file.NonShadowable.Add(vname)
	}
}

func (b *binderState) bindTypeAliasDecl(n syntax.Node, c *Container) {
	nameNode := n.ChildByField("name")
	if nameNode == nil {
		return
	}
	name := identText(nameNode)

	sym := &BoundSymbol{Name: name, DefiningNodeID: n.ID(), Kind: KindTypeAlias}
	if typeExpr := n.ChildByField("typeExpr"); typeExpr != nil && typeExpr.Kind() == syntax.KindRecordType {
		// A record-shaped alias also acts as a record constructor
		// function (spec §4.D).
		sym.Constructors = []string{name}
	}
	b.bindSymbol(c, sym)
	b.file.NonShadowable.Add(name)

	typeContainer := NewContainer(ContainerTypeAlias, n, n, c)
	b.file.TypeContainers[n.ID()] = typeContainer
	for _, tv := range syntax.ChildrenOfKind(n, syntax.KindTypeVariable) {
		b.bindSymbol(typeContainer, &BoundSymbol{Name: identText(tv), DefiningNodeID: tv.ID(), Kind: KindTypeVariable})
	}
	if typeExpr := n.ChildByField("typeExpr"); typeExpr != nil {
		for _, ft := range syntax.ChildrenOfKind(typeExpr, syntax.KindFieldType) {
			if fn := ft.ChildByField("name"); fn != nil {
				b.bindSymbol(typeContainer, &BoundSymbol{Name: identText(fn), DefiningNodeID: ft.ID(), Kind: KindFieldType})
			}
		}
	}
}

func (b *binderState) bindInfixDecl(n syntax.Node, c *Container) {
	opNode := n.ChildByField("operator")
	fnNode := n.ChildByField("function")
	if opNode == nil || fnNode == nil {
		return
	}
	op := identText(opNode)
	fn := identText(fnNode)
	// Infix declarations add an Operator entry twice: by operator symbol
	// and by its aliased function name (spec §4.D).
	b.bindSymbol(c, &BoundSymbol{Name: op, DefiningNodeID: n.ID(), Kind: KindOperator})
	b.bindSymbol(c, &BoundSymbol{Name: fn, DefiningNodeID: n.ID(), Kind: KindOperator})
}

func identText(n syntax.Node) string {
	return n.Text("")
}

func moduleNameOf(n syntax.Node) string {
	if nameNode := n.ChildByField("name"); nameNode != nil {
		return identText(nameNode)
	}
	return ""
}

func parseExposingList(n syntax.Node) *Exposing {
	exp := &Exposing{}
	for _, child := range n.Children() {
		switch child.Kind() {
		case syntax.KindDoubleDot:
			exp.All = true
		case syntax.KindExposedValue:
			exp.Entries = append(exp.Entries, ExposingEntry{Name: identText(child)})
		case syntax.KindExposedType:
			name := identText(child)
			all := false
			for _, gc := range child.Children() {
				if gc.Kind() == syntax.KindDoubleDot {
					all = true
				}
			}
			exp.Entries = append(exp.Entries, ExposingEntry{Name: name, AllConstructors: all})
		}
	}
	return exp
}

func parseImportClause(n syntax.Node) ImportClause {
	ic := ImportClause{Node: n}
	if nameNode := n.ChildByField("name"); nameNode != nil {
		ic.ModuleName = identText(nameNode)
	}
	if asNode := n.ChildByField("as"); asNode != nil {
		for _, gc := range asNode.Children() {
			if gc.Kind() == syntax.KindUpperCaseIdentifier {
				ic.Alias = identText(gc)
			}
		}
	}
	if expNode := n.ChildByField("exposing"); expNode != nil {
		ic.Exposing = parseExposingList(expNode)
	}
	return ic
}

// resolveExposing walks the module's own exposing list and copies the
// referenced top-level BoundSymbols into File.Exposing (spec §4.D).
func (b *binderState) resolveExposing() {
	exp := b.file.ModuleExposing
	if exp == nil {
		return
	}
	if exp.All {
		for _, sym := range b.file.Root.All() {
			if sym.Kind == KindFunction || sym.Kind == KindTypeAlias || sym.Kind == KindType || sym.Kind == KindPort {
				b.file.Exposing[sym.Name] = sym
			}
		}
		return
	}
	for _, entry := range exp.Entries {
		if sym, ok := b.file.Root.Local(entry.Name); ok {
			b.file.Exposing[entry.Name] = sym
			if entry.AllConstructors && sym.Kind == KindType {
				for _, ctorName := range sym.Constructors {
					if ctorSym, ok := b.file.Root.Local(ctorName); ok {
						b.file.Exposing[ctorName] = ctorSym
					}
				}
			}
		}
	}
}

// IsOperatorToken reports whether s looks like a symbolic infix operator
// rather than an identifier (used by the reference finder to decide
// whether a bare-name match should be treated as an operator reference).
func IsOperatorToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if strings.ContainsRune("+-*/<>=&|^:~!?.%", r) {
			continue
		}
		return false
	}
	return true
}
