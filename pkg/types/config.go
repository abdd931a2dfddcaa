package types

import "time"

// AIProvider identifies the generative AI backend.
// Per prd001-generation R6.1.
type AIProvider string

const (
	ProviderGemini    AIProvider = "gemini"
	ProviderOpenAI    AIProvider = "openai"
	ProviderAnthropic AIProvider = "anthropic"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the AI backend: gemini, openai, or anthropic.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the AI model identifier (e.g. "gemini-1.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// GenerationConfig holds settings for the generation stage. Decoding
// settings (temperature, token limits) are fixed in the generation package
// and are deliberately not configuration. Per prd001-generation R6.1-R6.4.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// InterSectionDelay is the pause between consecutive section calls
	// (default 1s). Tests set this to zero.
	InterSectionDelay time.Duration `json:"inter_section_delay" yaml:"inter_section_delay"`
}

// ExportConfig holds settings for the export stage.
// Per prd002-export R5.1-R5.2.
type ExportConfig struct {
	// OutputDir is the directory for exported documents (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// LibraryConfig holds settings for the paper library.
// Per prd003-library R1.2, R2.3.
type LibraryConfig struct {
	// LibraryDir is the base directory for the library database (default "library").
	LibraryDir string `json:"library_dir" yaml:"library_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Disabled turns off archiving of completed papers.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Export     ExportConfig     `json:"export" yaml:"export"`
	Library    LibraryConfig    `json:"library" yaml:"library"`
}
