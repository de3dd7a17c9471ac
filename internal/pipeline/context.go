package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/diagnostics"
	"github.com/funvibe/pgraph/internal/logging"
	"github.com/funvibe/pgraph/internal/typesystem"
)

// PipelineContext carries a program graph and everything the stages learn
// about it from loading to evaluation.
type PipelineContext struct {
	Context context.Context
	RunID   string
	Config  *config.Config
	Logger  *slog.Logger

	// FilePath is the source file, empty when AstRoot was supplied directly.
	FilePath string
	AstRoot  ast.Node

	// Diagnostics from validation and type checking. Advisory unless
	// Config.Stages.Strict is set.
	Diagnostics diagnostics.List
	// Errors are fatal problems (unreadable input, refused evaluation).
	Errors []error

	InferredType typesystem.Type
	NodesBefore  int
	NodesAfter   int

	// Result is the formatted evaluation outcome.
	Result  string
	Faulted bool
	Ran     bool
}

// NewContext prepares a run over root with a fresh run id.
func NewContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) *PipelineContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	runID := uuid.NewString()
	return &PipelineContext{
		Context: ctx,
		RunID:   runID,
		Config:  cfg,
		Logger:  logging.OrDiscard(logger).With("run", runID),
	}
}

// BaseDir is the directory relative paths resolve against: the source
// file's directory when there is one, the configured base dir otherwise.
func (c *PipelineContext) BaseDir() string {
	if c.FilePath != "" {
		return filepath.Dir(c.FilePath)
	}
	return c.Config.BaseDir
}

// Blocked reports whether evaluation must not run: a fatal error occurred,
// or strict mode is on and diagnostics exist.
func (c *PipelineContext) Blocked() bool {
	if len(c.Errors) > 0 {
		return true
	}
	return c.Config.Stages.Strict && c.Diagnostics.Len() > 0
}
