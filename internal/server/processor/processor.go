// FILE: checkers/internal/server/processor/processor.go
package processor

import (
	"errors"
	"fmt"
	"log"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/service"
)

const DefaultSearchTimeout = 30 * time.Second

// Config sizes the engine queue and bounds the searches it accepts
type Config struct {
	Workers       int
	MaxDepth      int
	SearchTimeout time.Duration
}

// Processor handles command execution and coordinates between service and engine layers
type Processor struct {
	svc      *service.Service
	queue    *EngineQueue
	maxDepth int
}

func New(svc *service.Service, cfg Config) *Processor {
	if cfg.MaxDepth < 1 || cfg.MaxDepth > engine.MaxSearchDepth {
		cfg.MaxDepth = engine.MaxSearchDepth
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}

	return &Processor{
		svc:      svc,
		queue:    NewEngineQueue(cfg.Workers, cfg.SearchTimeout),
		maxDepth: cfg.MaxDepth,
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdApplyMove:
		return p.handleApplyMove(cmd)
	case CmdEvaluate:
		return p.handleEvaluate(cmd)
	case CmdSearch:
		return p.handleSearch(cmd)
	case CmdCreateAnalysis:
		return p.handleCreateAnalysis(cmd)
	case CmdGetAnalysis:
		return p.handleGetAnalysis(cmd)
	case CmdDeleteAnalysis:
		return p.handleDeleteAnalysis(cmd)
	case CmdRenderBoard:
		return p.handleRenderBoard(cmd)
	case CmdPurgeCache:
		return p.handlePurgeCache(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// QueueLen reports how many searches are waiting for a worker
func (p *Processor) QueueLen() int {
	return p.queue.Len()
}

// position parses a request's grid and turn, mapping failures to error codes
func (p *Processor) position(grid []string, turn string) (*board.Board, core.Color, *ProcessorResponse) {
	b, color, err := engine.ParsePosition(grid, turn)
	if err != nil {
		code := core.ErrInvalidBoard
		var verr *engine.ValidationError
		if errors.As(err, &verr) && verr.Field != "board" {
			code = core.ErrInvalidRequest
		}
		resp := p.errorResponse(err.Error(), code)
		return nil, 0, &resp
	}
	return b, color, nil
}

func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PositionRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b, color, errResp := p.position(args.Board, args.Turn)
	if errResp != nil {
		return *errResp
	}

	moves := engine.GenerateMoves(b, color)
	infos := make([]core.MoveInfo, len(moves))
	for i, m := range moves {
		infos[i] = moveInfo(m)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.LegalMovesResponse{
			Turn:          color.String(),
			Moves:         infos,
			ForcedCapture: len(moves) > 0 && moves[0].IsJump(),
		},
	}
}

func (p *Processor) handleApplyMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ApplyMoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b, color, errResp := p.position(args.Board, args.Turn)
	if errResp != nil {
		return *errResp
	}

	m, err := board.ParseMove(args.Move)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}

	if state := engine.Outcome(b, color); state != core.StateOngoing {
		return p.errorResponse(fmt.Sprintf("game is over: %s", state), core.ErrGameOver)
	}

	if !engine.IsLegal(b, color, m) {
		return p.errorResponse(fmt.Sprintf("illegal move %s", m), core.ErrInvalidMove)
	}

	next := engine.Play(b, m)
	nextTurn := core.OppositeColor(color)

	return ProcessorResponse{
		Success: true,
		Data: core.ApplyMoveResponse{
			Board:    next.Rows(),
			Layout:   next.Layout(),
			Move:     moveInfo(m),
			NextTurn: nextTurn.String(),
			State:    engine.Outcome(next, nextTurn).String(),
		},
	}
}

func (p *Processor) handleEvaluate(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PositionRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b, color, errResp := p.position(args.Board, args.Turn)
	if errResp != nil {
		return *errResp
	}

	return ProcessorResponse{
		Success: true,
		Data: core.EvaluateResponse{
			Turn:  color.String(),
			Score: engine.Evaluate(b, color),
		},
	}
}

// checkDepth enforces both the engine bound and the server's configured ceiling
func (p *Processor) checkDepth(depth int) *ProcessorResponse {
	if err := engine.ValidateDepth(depth); err != nil {
		resp := p.errorResponse(err.Error(), core.ErrInvalidRequest)
		return &resp
	}
	if depth > p.maxDepth {
		resp := p.errorResponse(
			fmt.Sprintf("depth %d exceeds server limit %d", depth, p.maxDepth),
			core.ErrResourceLimit,
		)
		return &resp
	}
	return nil
}

// handleSearch answers from the cache or runs a search through the queue and waits for it
func (p *Processor) handleSearch(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SearchRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b, color, errResp := p.position(args.Board, args.Turn)
	if errResp != nil {
		return *errResp
	}
	if errResp := p.checkDepth(args.Depth); errResp != nil {
		return *errResp
	}

	layout := b.Layout()
	state := engine.Outcome(b, color)

	if cached, ok := p.svc.LookupSearch(layout, color, args.Depth); ok {
		return ProcessorResponse{
			Success: true,
			Data:    buildSearchResponse(cached, true, state),
		}
	}

	result := p.queue.SubmitWait("", b, color, args.Depth)
	if result.Error != nil {
		return p.queueErrorResponse(result.Error)
	}

	p.svc.StoreSearch(layout, color, result.Result)

	return ProcessorResponse{
		Success: true,
		Data:    buildSearchResponse(result.Result, false, state),
	}
}

// handleCreateAnalysis registers an analysis job and queues its search
func (p *Processor) handleCreateAnalysis(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SearchRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b, color, errResp := p.position(args.Board, args.Turn)
	if errResp != nil {
		return *errResp
	}
	if errResp := p.checkDepth(args.Depth); errResp != nil {
		return *errResp
	}

	layout := b.Layout()
	a, err := p.svc.CreateAnalysis(layout, color, args.Depth)
	if err != nil {
		if errors.Is(err, service.ErrTooManyAnalyses) {
			return p.errorResponse(err.Error(), core.ErrResourceLimit)
		}
		return p.errorResponse(fmt.Sprintf("failed to create analysis: %v", err), core.ErrInternalError)
	}

	if cached, ok := p.svc.LookupSearch(layout, color, args.Depth); ok {
		p.svc.CompleteAnalysis(a.ID, cached, true)
		return p.analysisResponse(a.ID, false)
	}

	err = p.queue.SubmitAsync(a.ID, b, color, args.Depth, func(result EngineResult) {
		if result.Error != nil {
			log.Printf("Engine error for analysis %s: %v", a.ID, result.Error)
			p.svc.FailAnalysis(a.ID, result.Error)
			return
		}
		p.svc.StoreSearch(layout, color, result.Result)
		// The job may have been removed meanwhile; nothing to do then
		p.svc.CompleteAnalysis(a.ID, result.Result, false)
	})
	if err != nil {
		p.svc.FailAnalysis(a.ID, err)
		return p.queueErrorResponse(err)
	}

	return p.analysisResponse(a.ID, true)
}

func (p *Processor) handleGetAnalysis(cmd Command) ProcessorResponse {
	a, err := p.svc.GetAnalysis(cmd.AnalysisID)
	if err != nil {
		return p.errorResponse("analysis not found", core.ErrAnalysisNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Pending: a.State == core.StatePending,
		Data:    buildAnalysisResponse(a),
	}
}

func (p *Processor) handleDeleteAnalysis(cmd Command) ProcessorResponse {
	err := p.svc.DeleteAnalysis(cmd.AnalysisID)
	switch {
	case errors.Is(err, service.ErrAnalysisNotFound):
		return p.errorResponse("analysis not found", core.ErrAnalysisNotFound)
	case errors.Is(err, service.ErrAnalysisPending):
		return p.errorResponse("cannot delete analysis while search is in progress", core.ErrInvalidRequest)
	case err != nil:
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
	}
}

func (p *Processor) handleRenderBoard(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.BoardRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b, err := board.ParseGrid(args.Board)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidBoard)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Layout: b.Layout(),
			Board:  b.ToASCII(),
		},
	}
}

func (p *Processor) handlePurgeCache(cmd Command) ProcessorResponse {
	if cmd.UserID == "" {
		return p.errorResponse("operator login required", core.ErrUnauthorized)
	}

	deleted, err := p.svc.PurgeCache()
	if err != nil {
		return p.errorResponse(fmt.Sprintf("failed to purge cache: %v", err), core.ErrInternalError)
	}
	log.Printf("Analysis cache purged by %s: %d entries", cmd.UserID, deleted)

	return ProcessorResponse{
		Success: true,
		Data:    core.PurgeCacheResponse{Deleted: deleted},
	}
}

func (p *Processor) analysisResponse(id string, pending bool) ProcessorResponse {
	a, err := p.svc.GetAnalysis(id)
	if err != nil {
		return p.errorResponse("analysis not found", core.ErrAnalysisNotFound)
	}
	return ProcessorResponse{
		Success: true,
		Pending: pending && a.State == core.StatePending,
		Data:    buildAnalysisResponse(a),
	}
}

func (p *Processor) queueErrorResponse(err error) ProcessorResponse {
	switch {
	case errors.Is(err, ErrQueueFull):
		return p.errorResponse("engine queue is full, retry later", core.ErrResourceLimit)
	case errors.Is(err, ErrQueueShutdown):
		return p.errorResponse("server is shutting down", core.ErrResourceLimit)
	case errors.Is(err, ErrSearchTimeout):
		return p.errorResponse("search timed out", core.ErrResourceLimit)
	default:
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}
}

func moveInfo(m board.Move) core.MoveInfo {
	return core.MoveInfo{
		Notation: m.String(),
		Path:     m.Pairs(),
		Jump:     m.IsJump(),
	}
}

func buildSearchResponse(result engine.Result, cached bool, state core.State) core.SearchResponse {
	resp := core.SearchResponse{
		Score:  result.Score,
		Nodes:  result.Nodes,
		Depth:  result.Depth,
		Cached: cached,
		State:  state.String(),
	}
	if result.Move != nil {
		info := moveInfo(result.Move)
		resp.Move = &info
	}
	return resp
}

func buildAnalysisResponse(a service.Analysis) core.AnalysisResponse {
	resp := core.AnalysisResponse{
		AnalysisID: a.ID,
		State:      a.State.String(),
		Turn:       a.Turn.String(),
		Depth:      a.Depth,
		Error:      a.Err,
	}
	if a.Result != nil {
		b, err := board.ParseLayout(a.Layout)
		state := core.StateOngoing
		if err == nil {
			state = engine.Outcome(b, a.Turn)
		}
		search := buildSearchResponse(*a.Result, a.Cached, state)
		resp.Result = &search
	}
	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close cleans up resources
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
