// Package datapages serves data pages over HTTP in the shape the HTTP data
// source reads: GET {route}/{pageID} answers {"pxResults": [...]}.
//
// Pages come from any datasource.Source. StaticPages keeps records in
// memory and can be loaded from a YAML or JSON file, which is how the CLI
// serves a demo backend for autocomplete and dropdown controls.
package datapages
