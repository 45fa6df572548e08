package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glsp_server "github.com/tliron/glsp/server"

	"github.com/elmlsp/elmlsp/internal/workspace"
)

const lsName = "elmls"

var version string = "0.0.1"

// log is the server's request-scoped logger (spec's ambient-stack
// expansion: the teacher's glsp stack already pulls in commonlog for
// protocol-level logging, so the server binary uses the same facility
// for its own startup/refactor-command messages rather than introducing
// a second logging library).
var log = commonlog.GetLogger("elmlsp")

func main() {
	commonlog.Configure(1, nil)
	log.Info("starting elmlsp server")

	server := glsp_server.NewServer(NewServer(), lsName, false)

	if err := server.RunStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// Server adapts internal/workspace.Index to the glsp protocol.Handler
// shape (grounded on the teacher's cmd/lsp-server/main.go wiring).
// documents holds the client's last-known text for each open URI.
// Indexing that text requires a concrete-grammar parser, which spec §1
// places out of scope, so didOpen/didChange/didClose here only maintain
// that cache; every position/refactor-based handler below operates on
// whatever Tree/Module state has already been fed into idx.
type Server struct {
	handler   protocol.Handler
	documents map[protocol.DocumentUri]protocol.TextDocumentItem
	idx       *workspace.Index
}

func NewServer() *Server {
	s := Server{
		documents: map[protocol.DocumentUri]protocol.TextDocumentItem{},
		idx:       workspace.NewIndex(),
	}
	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentPrepareRename:  s.textDocumentPrepareRename,
		TextDocumentRename:         s.textDocumentRename,
		TextDocumentCodeAction:     s.textDocumentCodeAction,

		WorkspaceSymbol:         s.workspaceSymbol,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}

	return &s
}

func (s *Server) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	return s.handler.Handle(context)
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.RootURI != nil {
		if err := s.idx.Initialize(*params.RootURI); err != nil {
			log.Warningf("failed to load project manifest: %s", err)
		}
	}

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull
	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true
	capabilities.ReferencesProvider = true
	capabilities.DocumentSymbolProvider = true
	capabilities.WorkspaceSymbolProvider = true
	capabilities.RenameProvider = &protocol.RenameOptions{PrepareProvider: boolPtr(true)}
	capabilities.CodeActionProvider = true
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{"moveFunction", "removeField", "removeVariant"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (*Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (*Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (*Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
