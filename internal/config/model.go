package config

// File is the decoded content of a configuration file, after defaults.
type File struct {
	Catalog Catalog
	Trace   Trace
	Output  Output
	Publish Publish
}

// Catalog locates workflow configuration files.
type Catalog struct {
	XMLPath string
	Suffix  string
}

// Trace tunes the trace pipeline.
type Trace struct {
	Workers      int
	DuplicateIDs string
	Groups       []string
}

// Output selects the report renderer.
type Output struct {
	Format string
}

// Publish configures the optional socket.io push of results.
type Publish struct {
	URL       string
	Namespace string
	Event     string
	Timeout   string
}

// Defaults used when the file leaves a value unset.
const (
	DefaultSuffix       = "_cfg.xml"
	DefaultDuplicateIDs = "reject"
	DefaultFormat       = "text"
	DefaultNamespace    = "/"
	DefaultEvent        = "exceptions"
	DefaultTimeout      = "10s"
)

// Default returns the configuration used when no file is given.
func Default() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

func (f *File) applyDefaults() {
	if f.Catalog.Suffix == "" {
		f.Catalog.Suffix = DefaultSuffix
	}
	if f.Trace.DuplicateIDs == "" {
		f.Trace.DuplicateIDs = DefaultDuplicateIDs
	}
	if f.Output.Format == "" {
		f.Output.Format = DefaultFormat
	}
	if f.Publish.Namespace == "" {
		f.Publish.Namespace = DefaultNamespace
	}
	if f.Publish.Event == "" {
		f.Publish.Event = DefaultEvent
	}
	if f.Publish.Timeout == "" {
		f.Publish.Timeout = DefaultTimeout
	}
}
