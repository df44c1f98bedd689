package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file probed when no -c flag is given.
const DefaultConfigPath = "sitegen.yaml"

// Config represents the application configuration. All paths are relative to
// ProjectRoot unless absolute. The zero value plus Default() reproduces the
// conventional project layout (README.md at the root, website/ holding the
// template and content tree, docs/ mirrored into the content tree).
type Config struct {
	ProjectRoot string `yaml:"project_root,omitempty"`
	Readme      string `yaml:"readme,omitempty"`
	Template    string `yaml:"template,omitempty"`
	ContentDir  string `yaml:"content_dir,omitempty"`
	Output      string `yaml:"output,omitempty"`
	DocsSource  string `yaml:"docs_source,omitempty"`
	DocsTarget  string `yaml:"docs_target,omitempty"`

	Site     SiteConfig     `yaml:"site,omitempty"`
	Markdown MarkdownConfig `yaml:"markdown,omitempty"`
	Preview  PreviewConfig  `yaml:"preview,omitempty"`
}

// SiteConfig drives the HTML post-processing rewrites. When the whole section
// is omitted it defaults to the stock README logo and tagline blocks; a
// config that sets any site field replaces the defaults wholesale, and an
// individual empty field then disables that rewrite.
type SiteConfig struct {
	// LogoImage is the src attribute of the README logo <img> block that gets
	// rewritten from inline centering to the readme__logo class.
	LogoImage string `yaml:"logo_image,omitempty"`
	// LogoAlt is the alt attribute of that <img>.
	LogoAlt string `yaml:"logo_alt,omitempty"`
	// Tagline is the text of the centered tagline paragraph rewritten to the
	// readme__tagline class.
	Tagline string `yaml:"tagline,omitempty"`
}

// MarkdownConfig holds renderer tuning knobs.
type MarkdownConfig struct {
	// HighlightStyle selects a chroma style for fenced code blocks.
	// Empty disables syntax highlighting.
	HighlightStyle string `yaml:"highlight_style,omitempty"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Port    int  `yaml:"port,omitempty"`
	Metrics bool `yaml:"metrics,omitempty"`
}

// Default returns a configuration describing the conventional project layout.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ProjectRoot == "" {
		c.ProjectRoot = "."
	}
	if c.Readme == "" {
		c.Readme = "README.md"
	}
	if c.Template == "" {
		c.Template = filepath.Join("website", "index.html.template")
	}
	if c.ContentDir == "" {
		c.ContentDir = filepath.Join("website", "content")
	}
	if c.Output == "" {
		c.Output = filepath.Join(c.ContentDir, "index.html")
	}
	if c.DocsSource == "" {
		c.DocsSource = "docs"
	}
	if c.DocsTarget == "" {
		c.DocsTarget = filepath.Join(c.ContentDir, "docs")
	}
	if c.Site == (SiteConfig{}) {
		c.Site = SiteConfig{
			LogoImage: "docs/images/logo/ascii-art-boon.png",
			LogoAlt:   "boon logo",
			Tagline:   "Timeless & Playful Language",
		}
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = 8080
	}
}

// resolve joins a configured path with the project root unless it is absolute.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// ReadmePath returns the absolute-or-root-relative path of the README file.
func (c *Config) ReadmePath() string { return c.resolve(c.Readme) }

// TemplatePath returns the path of the HTML template file.
func (c *Config) TemplatePath() string { return c.resolve(c.Template) }

// ContentDirPath returns the path of the content directory.
func (c *Config) ContentDirPath() string { return c.resolve(c.ContentDir) }

// OutputPath returns the path of the generated homepage.
func (c *Config) OutputPath() string { return c.resolve(c.Output) }

// DocsSourcePath returns the path of the documentation source tree.
func (c *Config) DocsSourcePath() string { return c.resolve(c.DocsSource) }

// DocsTargetPath returns the path the documentation tree is mirrored to.
func (c *Config) DocsTargetPath() string { return c.resolve(c.DocsTarget) }

// Rel renders a path relative to the project root for user-facing messages.
// Falls back to the input when the path cannot be made relative.
func (c *Config) Rel(p string) string {
	root, err := filepath.Abs(c.ProjectRoot)
	if err != nil {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return p
	}
	return rel
}

// Load loads configuration from the specified file. Environment variables in
// the YAML content are expanded before unmarshalling, so secrets and machine
// specific paths can be referenced as ${VAR}.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadOrDefault loads the config file when it exists and falls back to the
// default layout when the default path is absent. An explicitly requested
// path that is missing is still an error.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if configPath == DefaultConfigPath {
			slog.Debug("No configuration file found, using default layout", "path", configPath)
			loadEnvFiles()
			return Default(), nil
		}
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}
	return Load(configPath)
}

// loadEnvFiles loads .env/.env.local if present. Existing process environment
// variables are never overridden.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load env file", "path", envPath, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", envPath)
		return
	}
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		ProjectRoot: ".",
		Readme:      "README.md",
		Template:    filepath.Join("website", "index.html.template"),
		ContentDir:  filepath.Join("website", "content"),
		DocsSource:  "docs",
		Site: SiteConfig{
			LogoImage: "docs/images/logo/ascii-art-boon.png",
			LogoAlt:   "boon logo",
			Tagline:   "Timeless & Playful Language",
		},
		Markdown: MarkdownConfig{
			HighlightStyle: "github",
		},
		Preview: PreviewConfig{
			Port: 8080,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
