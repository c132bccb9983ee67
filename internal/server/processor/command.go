// FILE: checkers/internal/server/processor/command.go
package processor

import (
	"checkers/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdLegalMoves CommandType = iota
	CmdApplyMove
	CmdEvaluate
	CmdSearch
	CmdCreateAnalysis
	CmdGetAnalysis
	CmdDeleteAnalysis
	CmdRenderBoard
	CmdPurgeCache
)

// Command is a unified structure for all processor operations
type Command struct {
	Type       CommandType
	UserID     string
	AnalysisID string // For analysis-specific commands
	Args       any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"` // For async operations
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewLegalMovesCommand(req core.PositionRequest) Command {
	return Command{
		Type: CmdLegalMoves,
		Args: req,
	}
}

func NewApplyMoveCommand(req core.ApplyMoveRequest) Command {
	return Command{
		Type: CmdApplyMove,
		Args: req,
	}
}

func NewEvaluateCommand(req core.PositionRequest) Command {
	return Command{
		Type: CmdEvaluate,
		Args: req,
	}
}

func NewSearchCommand(req core.SearchRequest) Command {
	return Command{
		Type: CmdSearch,
		Args: req,
	}
}

func NewCreateAnalysisCommand(req core.SearchRequest) Command {
	return Command{
		Type: CmdCreateAnalysis,
		Args: req,
	}
}

func NewGetAnalysisCommand(analysisID string) Command {
	return Command{
		Type:       CmdGetAnalysis,
		AnalysisID: analysisID,
	}
}

func NewDeleteAnalysisCommand(analysisID string) Command {
	return Command{
		Type:       CmdDeleteAnalysis,
		AnalysisID: analysisID,
	}
}

func NewRenderBoardCommand(req core.BoardRequest) Command {
	return Command{
		Type: CmdRenderBoard,
		Args: req,
	}
}

func NewPurgeCacheCommand(userID string) Command {
	return Command{
		Type:   CmdPurgeCache,
		UserID: userID,
	}
}
