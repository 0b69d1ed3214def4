// Package source turns a command-line argument into readable text. It
// accepts stdin, files, directories and http(s) URLs, converts Markdown to
// plain prose and normalises the result.
package source
