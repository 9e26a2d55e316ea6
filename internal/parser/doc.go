// Package parser is the value boundary of the editing core: it turns
// serialized values into content trees and trees back into values.
//
// Parsing is delegated to golang.org/x/net/html; serialization renders the
// tree with every zero-width placeholder stripped, so placeholders never
// leak into the semantic document value. Values may carry cursor sentinel
// elements (<anchor/>, <focus/>, <cursor/>) which are extracted into a
// range and removed before the tree goes live.
//
// Plain-text paste that reads as markdown is converted to an HTML fragment
// with goldmark before insertion.
package parser
