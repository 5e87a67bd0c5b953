// Package docfile reads compiler-emitted XML documentation files and
// attaches their member documentation to metadata model entities.
package docfile
