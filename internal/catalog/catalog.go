package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/specialistvlad/wfdtrace/internal/fsutil"
)

// DefaultSuffix is the file name suffix of workflow configuration files.
const DefaultSuffix = "_cfg.xml"

// ErrNoWorkflowInfo indicates a configuration file without a readable wfd element.
var ErrNoWorkflowInfo = errors.New("no workflow info")

// WorkflowInfo is the content of a configuration file's wfd element.
type WorkflowInfo struct {
	Name           string `json:"name" yaml:"name"`
	Diagram        string `json:"diagram" yaml:"diagram"`
	Initialization string `json:"initialization" yaml:"initialization"`
}

// Entry is one workflow of a catalog.
type Entry struct {
	Root       string       `json:"-" yaml:"-"`
	ConfigPath string       `json:"config_path" yaml:"config_path"`
	Info       WorkflowInfo `json:"info" yaml:"info"`
	// Err is set when the configuration file could not be read.
	Err error `json:"-" yaml:"-"`
}

// Key returns the configuration file name without its "_cfg" suffix.
func (e Entry) Key() string {
	key, _, _ := strings.Cut(filepath.Base(e.ConfigPath), "_cfg")
	return key
}

// DiagramPath returns the path of the workflow document, or "" if unknown.
func (e Entry) DiagramPath() string {
	return e.resolve(e.Info.Diagram)
}

// InitializationPath returns the path of the initialization document, or "" if unknown.
func (e Entry) InitializationPath() string {
	return e.resolve(e.Info.Initialization)
}

func (e Entry) resolve(rel string) string {
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(e.Root, rel)
}

// Discover lists the workflows configured under root. Configuration files
// that cannot be read are still returned, with Err set, so that callers can
// report them alongside the others.
func Discover(ctx context.Context, root, suffix string) ([]Entry, error) {
	logger := ctxlog.FromContext(ctx)
	if suffix == "" {
		suffix = DefaultSuffix
	}

	files, err := fsutil.FindFilesBySuffix(root, suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog %s: %w", root, err)
	}
	logger.Debug("Discovered workflow configuration files.", "root", root, "count", len(files))

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		info, err := ReadWorkflowInfo(file)
		if err != nil {
			logger.Warn("Skipping unreadable workflow configuration.", "path", file, "error", err)
		}
		entries = append(entries, Entry{Root: root, ConfigPath: file, Info: info, Err: err})
	}
	return entries, nil
}

// ReadWorkflowInfo reads the first wfd element of a configuration file.
func ReadWorkflowInfo(path string) (WorkflowInfo, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return WorkflowInfo{}, fmt.Errorf("%w: %s: %v", ErrNoWorkflowInfo, path, err)
	}

	wfd := doc.FindElement("//wfd")
	if wfd == nil {
		return WorkflowInfo{}, fmt.Errorf("%w: %s has no <wfd> element", ErrNoWorkflowInfo, path)
	}

	return WorkflowInfo{
		Name:           wfd.SelectAttrValue("WorkflowName", ""),
		Diagram:        wfd.SelectAttrValue("WorkflowDiagram", ""),
		Initialization: wfd.SelectAttrValue("Initialization", ""),
	}, nil
}
