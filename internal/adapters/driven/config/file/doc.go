// Package file provides file-based configuration and prompt loading.
// Settings live in a TOML file under the askcampus home directory and
// can be overridden through environment variables; prompts are plain
// text files the user may edit.
package file
