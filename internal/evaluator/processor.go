package evaluator

import (
	"fmt"
	"io"
	"strings"

	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/pipeline"
)

// EvaluatorProcessor runs the graph and stores the formatted outcome.
type EvaluatorProcessor struct {
	Providers []Provider
	Out       io.Writer // Print output; nil keeps the evaluator default
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	if ctx.Blocked() {
		if len(ctx.Errors) == 0 {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("strict mode: refusing to evaluate: %w", ctx.Diagnostics.Err()))
		}
		ctx.Logger.Warn("evaluation skipped", "errors", len(ctx.Errors))
		return ctx
	}

	eval := NewFromConfig(ctx.Config, ep.Providers)
	eval.Context = ctx.Context
	eval.Logger = ctx.Logger
	eval.BaseDir = ctx.BaseDir()
	if ep.Out != nil {
		eval.Out = ep.Out
	}

	ctx.Result = eval.Execute(ctx.AstRoot)
	ctx.Ran = true
	ctx.Faulted = strings.HasPrefix(ctx.Result, config.FaultPrefix)
	return ctx
}
