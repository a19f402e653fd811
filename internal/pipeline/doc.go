// Package pipeline sequences a single extraction run and maps its failures
// to a status value. It is the only layer aware of run state: the packages it
// drives (sanitize, jsontree, extract) are pure functions.
package pipeline
