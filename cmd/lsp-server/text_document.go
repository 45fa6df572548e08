package main

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/text/cases"

	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/classifier"
	"github.com/elmlsp/elmlsp/internal/refactor"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/workspace"
)

// foldCaser normalizes a name before workspace/symbol fuzzy matching.
// Unicode-aware (golang.org/x/text/cases) rather than an ASCII-only
// byte-compare, since exposed ELMLIKE identifiers can contain non-ASCII
// letters the same way Elm's own identifier grammar permits them.
var foldCaser = cases.Fold()

// posToPoint converts LSP's 0-based line/character position to the
// opaque tree's 1-based syntax.Point (mirrors the teacher's posToLoc in
// its own text_document.go).
func posToPoint(pos protocol.Position) syntax.Point {
	return syntax.Point{Line: int(pos.Line) + 1, Column: int(pos.Character) + 1}
}

func rangeToProtocol(r syntax.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(r.Start.Line - 1), Character: protocol.UInteger(r.Start.Column - 1)},
		End:   protocol.Position{Line: protocol.UInteger(r.End.Line - 1), Character: protocol.UInteger(r.End.Column - 1)},
	}
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.documents[params.TextDocument.URI] = params.TextDocument
	return nil
}

func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		return fmt.Errorf("textDocument/didChange: unknown document %s", params.TextDocument.URI)
	}
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc.Text = whole.Text
		}
	}
	doc.Version = params.TextDocument.Version
	s.documents[params.TextDocument.URI] = doc
	return nil
}

func (s *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	delete(s.documents, params.TextDocument.URI)
	return nil
}

// classifyAt is the shared (uri, position) -> DefinitionSymbol lookup
// every position-based handler below starts from; see
// workspace.Index.ClassifyAt for the definition-site/use-site resolution
// it performs.
func (s *Server) classifyAt(uri string, pos protocol.Position) (*workspace.Module, *classifier.DefinitionSymbol, bool) {
	return s.idx.ClassifyAt(uri, posToPoint(pos))
}

// textDocumentHover answers with the hovered symbol's signature and
// defining module (spec §6: "optional signature+source module"). It
// prefers the definition's own declared/inferred type (so hovering a
// qualified use-site like `Helper.add` shows Helper's signature for
// `add`, not whatever this file's own inference made of an unresolved
// name) and falls back to the hovered expression's own inferred type
// when the position isn't a resolvable reference at all (a literal, an
// operator, …).
func (s *Server) textDocumentHover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)
	if mod, def, ok := s.classifyAt(uri, params.Position); ok {
		if t, ok := mod.Declarations[def.Name]; ok {
			value := fmt.Sprintf("```\n%s : %s\n```\n\n*%s*", def.Name, t.String(), mod.File.ModuleName)
			return &protocol.Hover{
				Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
			}, nil
		}
	}

	mod, ok := s.idx.Module(uri)
	if !ok {
		return nil, nil
	}
	node := syntax.FindSmallest(mod.Tree.Root, posToPoint(params.Position))
	if node == nil {
		return nil, nil
	}
	t, ok := mod.ExpressionTypes[node.ID()]
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: "```\n" + t.String() + "\n```"},
	}, nil
}

func (s *Server) textDocumentDefinition(context *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	_, def, ok := s.classifyAt(string(params.TextDocument.URI), params.Position)
	if !ok {
		return nil, nil
	}
	return protocol.Location{
		URI:   protocol.DocumentUri(def.URI),
		Range: rangeToProtocol(def.Range),
	}, nil
}

func (s *Server) textDocumentReferences(context *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	_, def, ok := s.classifyAt(string(params.TextDocument.URI), params.Position)
	if !ok {
		return nil, nil
	}
	var locs []protocol.Location
	for _, ref := range s.idx.ReferencesTo(def.URI, def.NodeID) {
		if ref.URI == def.URI && ref.NodeID == def.NodeID && !params.Context.IncludeDeclaration {
			continue
		}
		locs = append(locs, protocol.Location{URI: protocol.DocumentUri(ref.URI), Range: rangeToProtocol(ref.Range)})
	}
	return locs, nil
}

func (s *Server) textDocumentDocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	mod, ok := s.idx.Module(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	var out []any
	for _, sym := range mod.File.Root.All() {
		node, ok := mod.NodeIndex[sym.DefiningNodeID]
		if !ok {
			continue
		}
		out = append(out, protocol.SymbolInformation{
			Name:     sym.Name,
			Kind:     symbolKindFor(sym.Kind),
			Location: protocol.Location{URI: params.TextDocument.URI, Range: rangeToProtocol(node.Range())},
		})
	}
	return out, nil
}

func (s *Server) workspaceSymbol(context *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]any, error) {
	var out []any
	for _, mod := range s.idx.AllModules() {
		for name, sym := range mod.File.Exposing {
			if params.Query != "" && !containsFold(name, params.Query) {
				continue
			}
			node, ok := mod.NodeIndex[sym.DefiningNodeID]
			if !ok {
				continue
			}
			out = append(out, protocol.SymbolInformation{
				Name:          name,
				Kind:          symbolKindFor(sym.Kind),
				Location:      protocol.Location{URI: protocol.DocumentUri(mod.URI), Range: rangeToProtocol(node.Range())},
				ContainerName: strPtr(mod.File.ModuleName),
			})
		}
	}
	return out, nil
}

func (s *Server) textDocumentPrepareRename(context *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	r, err := refactor.PrepareRename(s.idx, string(params.TextDocument.URI), posToPoint(params.Position))
	if err != nil {
		return nil, err
	}
	rng := rangeToProtocol(r)
	return rng, nil
}

func (s *Server) textDocumentRename(context *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	es, err := refactor.Rename(s.idx, string(params.TextDocument.URI), posToPoint(params.Position), params.NewName)
	if err != nil {
		return nil, err
	}
	return editSetToWorkspaceEdit(es), nil
}

func (s *Server) textDocumentCodeAction(context *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := string(params.TextDocument.URI)
	mod, ok := s.idx.Module(uri)
	if !ok {
		return nil, nil
	}
	start := posToPoint(params.Range.Start)
	def, ok := classifier.Classify(mod.Tree, mod.File, start)
	if !ok {
		return nil, nil
	}

	if def.Kind != binder.KindFunction {
		return nil, nil
	}

	var actions []protocol.CodeAction
	title := fmt.Sprintf("Move %q to another module", def.Name)
	actions = append(actions, protocol.CodeAction{
		Title: title,
		Kind:  codeActionKindPtr("refactor.move"),
		Command: &protocol.Command{
			Title:     title,
			Command:   "moveFunction",
			Arguments: []any{uri, def.Name},
		},
	})
	return actions, nil
}

func codeActionKindPtr(s protocol.CodeActionKind) *protocol.CodeActionKind { return &s }

func symbolKindFor(k binder.SymbolKind) protocol.SymbolKind {
	switch k.String() {
	case "Function":
		return protocol.SymbolKindFunction
	case "Type", "TypeAlias":
		return protocol.SymbolKindClass
	case "UnionConstructor":
		return protocol.SymbolKindEnumMember
	case "Port":
		return protocol.SymbolKindInterface
	default:
		return protocol.SymbolKindVariable
	}
}

func containsFold(hay, needle string) bool {
	return len(needle) == 0 || strings.Contains(foldCaser.String(hay), foldCaser.String(needle))
}

func editSetToWorkspaceEdit(es refactor.EditSet) *protocol.WorkspaceEdit {
	changes := map[protocol.DocumentUri][]protocol.TextEdit{}
	for uri, edits := range es {
		var tedits []protocol.TextEdit
		for _, e := range edits {
			tedits = append(tedits, protocol.TextEdit{Range: rangeToProtocol(e.Range), NewText: e.NewText})
		}
		changes[protocol.DocumentUri(uri)] = tedits
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}
