package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/elmlsp/elmlsp/internal/refactor"
)

// workspaceExecuteCommand dispatches the three refactor commands the
// client's code actions invoke (spec §6), each producing a WorkspaceEdit
// the client applies locally — the server itself never writes files. Each
// invocation is tagged with a correlation id so concurrent refactor
// requests can be told apart in the log stream.
func (s *Server) workspaceExecuteCommand(context *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	corrID := uuid.New().String()
	log.Infof("[%s] executeCommand %s %v", corrID, params.Command, params.Arguments)

	var result any
	var err error
	switch params.Command {
	case "moveFunction":
		result, err = s.executeMoveFunction(params.Arguments)
	case "removeField":
		result, err = s.executeRemoveField(params.Arguments)
	case "removeVariant":
		result, err = s.executeRemoveVariant(params.Arguments)
	default:
		return nil, fmt.Errorf("unknown command: %s", params.Command)
	}

	if err != nil {
		log.Errorf("[%s] executeCommand %s failed: %s", corrID, params.Command, err)
	} else {
		log.Infof("[%s] executeCommand %s succeeded", corrID, params.Command)
	}
	return result, err
}

func (s *Server) executeMoveFunction(args []any) (any, error) {
	sourceURI, functionName, targetURI, err := threeStringArgs(args)
	if err != nil {
		return nil, err
	}
	es, summary, err := refactor.MoveFunction(s.idx, sourceURI, functionName, targetURI)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"edit":    editSetToWorkspaceEdit(es),
		"summary": summary,
	}, nil
}

func (s *Server) executeRemoveField(args []any) (any, error) {
	uri, typeName, fieldName, err := threeStringArgs(args)
	if err != nil {
		return nil, err
	}
	es, summary, err := refactor.RemoveField(s.idx, uri, typeName, fieldName)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"edit":    editSetToWorkspaceEdit(es),
		"summary": summary,
	}, nil
}

func (s *Server) executeRemoveVariant(args []any) (any, error) {
	if len(args) != 5 {
		return nil, fmt.Errorf("removeVariant expects 5 arguments, got %d", len(args))
	}
	uri, okURI := args[0].(string)
	typeName, okType := args[1].(string)
	variantName, okVariant := args[2].(string)
	variantIndex, okIdx := toInt(args[3])
	totalVariants, okTotal := toInt(args[4])
	if !okURI || !okType || !okVariant || !okIdx || !okTotal {
		return nil, fmt.Errorf("removeVariant: invalid arguments: %v", args)
	}
	es, summary, err := refactor.RemoveVariant(s.idx, uri, typeName, variantName, variantIndex, totalVariants)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"edit":    editSetToWorkspaceEdit(es),
		"summary": summary,
	}, nil
}

func threeStringArgs(args []any) (a, b, c string, err error) {
	if len(args) != 3 {
		return "", "", "", fmt.Errorf("expected 3 arguments, got %d", len(args))
	}
	sa, ok1 := args[0].(string)
	sb, ok2 := args[1].(string)
	sc, ok3 := args[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return "", "", "", fmt.Errorf("invalid arguments: %v", args)
	}
	return sa, sb, sc, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
