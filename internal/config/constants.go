package config

// SourceFileExtensions are all recognized program graph file extensions
var SourceFileExtensions = []string{".pg.json", ".json", ".pgb"}

// BinaryFileExt is the extension used for binary-encoded graphs
const BinaryFileExt = ".pgb"

// ConfigFileNames are searched for by FindConfig, in order
var ConfigFileNames = []string{"pgraph.yaml", "pgraph.yml"}

// Result formatting prefixes
const (
	ReturnPrefix = "Return: "
	MemoryPrefix = ", Memory: "
	FaultPrefix  = "Fault: "
)

// Runtime type suffixes used in top-level value rendering
const (
	IntSuffix    = "i64"
	FloatSuffix  = "f64"
	BoolSuffix   = "bool"
	StringSuffix = "String"
	ArraySuffix  = "Array"
)

// Native provider module names
const (
	IOModule     = "io"
	MathModule   = "math"
	BridgeModule = "bridge"
	HostModule   = "host"
)

// DefaultMaxDepth bounds nested evaluation so runaway recursion faults
// instead of exhausting the goroutine stack.
const DefaultMaxDepth = 10000

// DefaultHandleFunctions are native functions whose results the type checker
// treats as opaque resource handles.
var DefaultHandleFunctions = []string{"open", "create", "load_mesh", "load_texture", "load_audio", "compile_shader"}
