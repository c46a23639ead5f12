package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is the HCL schema of a configuration file.
type fileRoot struct {
	Catalog *catalogBlock `hcl:"catalog,block"`
	Trace   *traceBlock   `hcl:"trace,block"`
	Output  *outputBlock  `hcl:"output,block"`
	Publish *publishBlock `hcl:"publish,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

type catalogBlock struct {
	XMLPath string `hcl:"xml_path,optional"`
	Suffix  string `hcl:"suffix,optional"`
}

type traceBlock struct {
	Workers      int      `hcl:"workers,optional"`
	DuplicateIDs string   `hcl:"duplicate_ids,optional"`
	Groups       []string `hcl:"groups,optional"`
}

type outputBlock struct {
	Format string `hcl:"format,optional"`
}

type publishBlock struct {
	URL       string `hcl:"url"`
	Namespace string `hcl:"namespace,optional"`
	Event     string `hcl:"event,optional"`
	Timeout   string `hcl:"timeout,optional"`
}

// Load parses the configuration file at path using the process environment.
func Load(ctx context.Context, path string) (*File, error) {
	return LoadWithEnv(ctx, path, os.Environ())
}

// LoadWithEnv parses the configuration file at path, exposing environ
// ("KEY=value" pairs) to expressions as the env object.
func LoadWithEnv(ctx context.Context, path string, environ []string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration file.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(environ), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	warnUnknown(logger, path, root.Remain)

	f := translate(&root)
	logger.Debug("Configuration loaded.", "catalog", f.Catalog.XMLPath, "format", f.Output.Format, "publish", f.Publish.URL != "")
	return f, nil
}

// knownBlocks are the top-level block types decoded into fileRoot.
var knownBlocks = map[string]bool{"catalog": true, "trace": true, "output": true, "publish": true}

// warnUnknown reports top-level attributes and blocks that fileRoot does not
// decode. The remain body of a native syntax file still lists the known
// blocks, so those are filtered by type.
func warnUnknown(logger *slog.Logger, path string, remain hcl.Body) {
	body, ok := remain.(*hclsyntax.Body)
	if !ok {
		attrs, _ := remain.JustAttributes()
		for name := range attrs {
			logger.Warn("Ignoring unknown top-level config attribute.", "path", path, "name", name)
		}
		return
	}

	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		logger.Warn("Ignoring unknown top-level config attribute.", "path", path, "name", name, "line", body.Attributes[name].SrcRange.Start.Line)
	}
	for _, block := range body.Blocks {
		if knownBlocks[block.Type] {
			continue
		}
		logger.Warn("Ignoring unknown top-level config block.", "path", path, "type", block.Type, "line", block.TypeRange.Start.Line)
	}
}

// evalContext exposes the environment as an object so that references to
// unset variables are reported as errors instead of evaluating to "".
func evalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

func translate(root *fileRoot) *File {
	f := &File{}
	if b := root.Catalog; b != nil {
		f.Catalog = Catalog{XMLPath: b.XMLPath, Suffix: b.Suffix}
	}
	if b := root.Trace; b != nil {
		f.Trace = Trace{Workers: b.Workers, DuplicateIDs: b.DuplicateIDs, Groups: b.Groups}
	}
	if b := root.Output; b != nil {
		f.Output = Output{Format: b.Format}
	}
	if b := root.Publish; b != nil {
		f.Publish = Publish{URL: b.URL, Namespace: b.Namespace, Event: b.Event, Timeout: b.Timeout}
	}
	f.applyDefaults()
	return f
}
