package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routedoc/generator"
	"github.com/vitalvas/routedoc/openapi"
)

// DefaultPattern matches the Go sources scanned for type declarations.
const DefaultPattern = "controller/**/*.go"

// fileConfig is the shape of the --config file. Pointers distinguish an
// absent key from a zero value.
type fileConfig struct {
	Manifest             string         `yaml:"manifest"`
	Pattern              string         `yaml:"pattern"`
	Schemas              string         `yaml:"schemas"`
	RefPointerPrefix     string         `yaml:"refPointerPrefix"`
	RoutePrefix          *string        `yaml:"routePrefix"`
	DefaultParamRequired *bool          `yaml:"defaultParamRequired"`
	Info                 fileConfigInfo `yaml:"info"`
	Output               string         `yaml:"output"`
	Format               string         `yaml:"format"`
	Validate             *bool          `yaml:"validate"`
	TagStyle             string         `yaml:"tagStyle"`
	Dedup                string         `yaml:"dedup"`

	Serve fileConfigServe `yaml:"serve"`
}

type fileConfigInfo struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type fileConfigServe struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"basePath"`
	UI       string `yaml:"ui"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}
	return &fc, nil
}

// GenerateConfig captures the inputs of document generation after merging
// defaults, config file values and flags.
type GenerateConfig struct {
	ConfigPath string

	Manifest         string
	Pattern          string
	Schemas          string
	RefPointerPrefix string

	// RoutePrefix and DefaultParamRequired override the manifest when set.
	RoutePrefix          *string
	DefaultParamRequired *bool

	Title   string
	Version string

	Output   string
	Format   openapi.Format
	Validate bool

	TagStyle generator.TagStyle
	Dedup    generator.DedupPolicy
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Pattern: DefaultPattern,
		Format:  openapi.FormatJSON,
		Dedup:   generator.ExpandedWins,
	}
}

func (c *GenerateConfig) applyFile(fc *fileConfig) error {
	if fc.Manifest != "" {
		c.Manifest = fc.Manifest
	}
	if fc.Pattern != "" {
		c.Pattern = fc.Pattern
	}
	if fc.Schemas != "" {
		c.Schemas = fc.Schemas
	}
	if fc.RefPointerPrefix != "" {
		c.RefPointerPrefix = fc.RefPointerPrefix
	}
	if fc.RoutePrefix != nil {
		c.RoutePrefix = fc.RoutePrefix
	}
	if fc.DefaultParamRequired != nil {
		c.DefaultParamRequired = fc.DefaultParamRequired
	}
	if fc.Info.Title != "" {
		c.Title = fc.Info.Title
	}
	if fc.Info.Version != "" {
		c.Version = fc.Info.Version
	}
	if fc.Output != "" {
		c.Output = fc.Output
	}
	if fc.Validate != nil {
		c.Validate = *fc.Validate
	}

	if fc.Format != "" {
		format, err := openapi.ParseFormat(fc.Format)
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", "format", err))
		}
		c.Format = format
	}
	if fc.TagStyle != "" {
		style, err := generator.ParseTagStyle(fc.TagStyle)
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", "tagStyle", err))
		}
		c.TagStyle = style
	}
	if fc.Dedup != "" {
		policy, err := generator.ParseDedupPolicy(fc.Dedup)
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", "dedup", err))
		}
		c.Dedup = policy
	}
	return nil
}

func (c *GenerateConfig) applyFlags(flags *pflag.FlagSet) error {
	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"manifest", &c.Manifest},
		{"pattern", &c.Pattern},
		{"schemas", &c.Schemas},
		{"ref-prefix", &c.RefPointerPrefix},
		{"title", &c.Title},
		{"version", &c.Version},
		{"out", &c.Output},
	}
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(value)
	}

	if flags.Changed("route-prefix") {
		value, err := flags.GetString("route-prefix")
		if err != nil {
			return err
		}
		c.RoutePrefix = &value
	}
	if flags.Changed("default-param-required") {
		value, err := flags.GetBool("default-param-required")
		if err != nil {
			return err
		}
		c.DefaultParamRequired = &value
	}
	if flags.Changed("validate") {
		value, err := flags.GetBool("validate")
		if err != nil {
			return err
		}
		c.Validate = value
	}

	if flags.Changed("format") {
		value, err := flags.GetString("format")
		if err != nil {
			return err
		}
		format, err := openapi.ParseFormat(value)
		if err != nil {
			return newUsageError(fmt.Sprintf("--format: %v", err))
		}
		c.Format = format
	}
	if flags.Changed("tag-style") {
		value, err := flags.GetString("tag-style")
		if err != nil {
			return err
		}
		style, err := generator.ParseTagStyle(value)
		if err != nil {
			return newUsageError(fmt.Sprintf("--tag-style: %v", err))
		}
		c.TagStyle = style
	}
	if flags.Changed("dedup") {
		value, err := flags.GetString("dedup")
		if err != nil {
			return err
		}
		policy, err := generator.ParseDedupPolicy(value)
		if err != nil {
			return newUsageError(fmt.Sprintf("--dedup: %v", err))
		}
		c.Dedup = policy
	}
	return nil
}

// inferFormat picks the format from the output extension when neither the
// config file nor a flag chose one.
func (c *GenerateConfig) inferFormat(explicit bool) {
	if explicit || c.Output == "" {
		return
	}
	if i := strings.LastIndexByte(c.Output, '.'); i >= 0 {
		if format, err := openapi.ParseFormat(c.Output[i+1:]); err == nil {
			c.Format = format
		}
	}
}

func (c *GenerateConfig) validate() error {
	if strings.TrimSpace(c.Manifest) == "" {
		return newUsageError("--manifest is required (set via flag or config file)")
	}
	return nil
}

// registerGenerateFlags adds the flags shared by generate and serve.
func registerGenerateFlags(flags *pflag.FlagSet) {
	flags.String("manifest", "", "Route manifest file (YAML or JSON)")
	flags.String("pattern", "", "Glob of Go sources scanned for type declarations (default "+DefaultPattern+")")
	flags.String("schemas", "", "Glob of JSON or YAML schema definition files")
	flags.String("ref-prefix", "", "Reference pointer prefix (default "+openapi.ComponentsPrefix+")")
	flags.String("route-prefix", "", "Prefix prepended to every controller route")
	flags.Bool("default-param-required", false, "Treat parameters as required unless declared otherwise")
	flags.String("title", "", "Document title")
	flags.String("version", "", "Document version")
	flags.String("tag-style", "", "Operation tag style (verbatim|start-case|kebab)")
	flags.String("dedup", "", "Parameter tie-break when an expanded and a declared parameter collide (expanded|declared)")
}

func resolveGenerateConfig(flags *pflag.FlagSet) (*GenerateConfig, *fileConfig, error) {
	cfg := defaultGenerateConfig()
	fc := &fileConfig{}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if fc, err = loadFileConfig(configPath); err != nil {
			return nil, nil, err
		}
		if err := cfg.applyFile(fc); err != nil {
			return nil, nil, err
		}
	}

	if err := cfg.applyFlags(flags); err != nil {
		return nil, nil, err
	}
	cfg.inferFormat(fc.Format != "" || flags.Changed("format"))

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, fc, nil
}
