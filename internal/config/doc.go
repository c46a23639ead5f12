// Package config loads the tracer's HCL configuration file.
//
// Every block and attribute is optional. Expressions are evaluated with an
// "env" object holding the process environment, so a catalog location can be
// written as `xml_path = env.WFD_XML_PATH`. Defaults are applied after
// decoding; command-line flags are merged on top by the app package.
package config
