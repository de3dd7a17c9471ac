package pipeline

import (
	"fmt"
	"time"
)

// Processor is one stage of the toolchain.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		start := time.Now()
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages;
		// each stage decides for itself whether it can run.
		ctx.Logger.Debug("stage completed",
			"stage", fmt.Sprintf("%T", processor),
			"elapsed", time.Since(start),
			"diagnostics", ctx.Diagnostics.Len())
	}
	return ctx
}
