// Package connectors groups the source-side API clients. Each
// subpackage implements driven.SourceClient for one document source;
// workspace is the hierarchical document API the mirror reads from.
package connectors
