package types

// Default export settings. Running the tool without flags or a config
// file reproduces the fixed-parameter export with these values.
const (
	DefaultInputPath   = "08_architecture-model-simple.ifc"
	DefaultOutputPath  = "lca_base_quantities.csv"
	DefaultCategory    = "IfcElement"
	DefaultPreviewRows = 10
)

// SinkConfig names optional extra outputs written beside the CSV.
// An empty path disables that sink.
type SinkConfig struct {
	// XLSXPath is the workbook written with the same rows as the CSV.
	XLSXPath string `json:"xlsx,omitempty" yaml:"xlsx,omitempty" mapstructure:"xlsx"`

	// SQLitePath is the database the run and its rows are appended to.
	SQLitePath string `json:"sqlite,omitempty" yaml:"sqlite,omitempty" mapstructure:"sqlite"`

	// YAMLPath is the YAML document holding the run summary and rows.
	YAMLPath string `json:"yaml,omitempty" yaml:"yaml,omitempty" mapstructure:"yaml"`

	// JSONPath is the JSON document holding the run summary and rows.
	JSONPath string `json:"json,omitempty" yaml:"json,omitempty" mapstructure:"json"`
}

// ExportConfig holds settings for one export run.
type ExportConfig struct {
	// InputPath is the IFC file to read.
	InputPath string `json:"input" yaml:"input" mapstructure:"input"`

	// OutputPath is the CSV file to write.
	OutputPath string `json:"output" yaml:"output" mapstructure:"output"`

	// Category is the IFC class whose instances (and subtypes) are exported.
	Category string `json:"category" yaml:"category" mapstructure:"category"`

	// PreviewRows is the number of rows shown in the console preview (default 10).
	PreviewRows int `json:"preview_rows" yaml:"preview_rows" mapstructure:"preview"`

	Sinks SinkConfig `json:"sinks" yaml:"sinks" mapstructure:",squash"`
}

// DefaultExportConfig returns the settings of the fixed-parameter export.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		InputPath:   DefaultInputPath,
		OutputPath:  DefaultOutputPath,
		Category:    DefaultCategory,
		PreviewRows: DefaultPreviewRows,
	}
}

// LogConfig selects the diagnostic log handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"log-level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"log-format"`
}
