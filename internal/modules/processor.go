package modules

import (
	"github.com/funvibe/pgraph/internal/diagnostics"
	"github.com/funvibe/pgraph/internal/pipeline"
)

// LoaderProcessor decodes ctx.FilePath into ctx.AstRoot when no graph was
// supplied directly.
type LoaderProcessor struct{}

func (lp *LoaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot != nil || ctx.FilePath == "" {
		return ctx
	}

	mod, err := NewLoader(ctx.Config.BaseDir).Load(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		ctx.Diagnostics.Add(diagnostics.StageLoad, err.Error())
		return ctx
	}
	ctx.FilePath = mod.Path
	ctx.AstRoot = mod.Root
	ctx.Logger.Debug("graph loaded", "path", mod.Path, "format", mod.Format, "bytes", mod.Size)
	return ctx
}
