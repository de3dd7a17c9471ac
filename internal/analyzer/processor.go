package analyzer

import (
	"github.com/funvibe/pgraph/internal/diagnostics"
	"github.com/funvibe/pgraph/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || !ctx.Config.Stages.TypeCheck {
		return ctx
	}

	a := New(ctx.Config.HandleFunctions)
	a.SetLogger(ctx.Logger)
	typ, errs := a.Check(ctx.AstRoot)
	ctx.InferredType = typ
	if len(errs) > 0 {
		ctx.Diagnostics.Add(diagnostics.StageTypeCheck, errs...)
		ctx.Logger.Info("type check reported problems", "count", len(errs))
	}
	return ctx
}
