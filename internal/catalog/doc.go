// Package catalog discovers the workflows of a configuration directory.
//
// A catalog directory holds one configuration file per workflow (named
// "<key>_cfg.xml"). Each configuration file has a wfd element naming the
// workflow, its diagram document and its initialization document, both given
// relative to the catalog directory. The diagram is what the tracer consumes;
// the initialization document lists the events and prefilters of the
// workflow and is summarized for display only.
package catalog
