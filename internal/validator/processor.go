package validator

import (
	"github.com/funvibe/pgraph/internal/diagnostics"
	"github.com/funvibe/pgraph/internal/pipeline"
)

type ValidatorProcessor struct{}

func (vp *ValidatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || !ctx.Config.Stages.Validate {
		return ctx
	}

	v := New(ctx.BaseDir())
	v.SetLogger(ctx.Logger)
	if errs := v.Validate(ctx.AstRoot); len(errs) > 0 {
		ctx.Diagnostics.Add(diagnostics.StageValidate, errs...)
		ctx.Logger.Info("validation reported problems", "count", len(errs))
	}
	return ctx
}
