// Package formats provides parsers for texture metadata files.
//
// A SUB file is a line-oriented key/value description of one rectangular
// region of a texture atlas. See ParseSub.
package formats
