package optimizer

import (
	"github.com/funvibe/pgraph/internal/pipeline"
)

type OptimizerProcessor struct{}

func (op *OptimizerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	before := CountNodes(ctx.AstRoot)
	ctx.NodesBefore, ctx.NodesAfter = before, before
	if !ctx.Config.Stages.Optimize {
		return ctx
	}

	optimized, stats := Run(ctx.AstRoot)
	ctx.AstRoot = optimized
	ctx.NodesAfter = stats.After
	ctx.Logger.Debug("graph optimized", "before", stats.Before, "after", stats.After, "removed", stats.Removed())
	return ctx
}
