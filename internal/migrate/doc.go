// Package migrate rewrites hardcoded LLM model and provider literals in test
// files into references to shared constants.
//
// A Migrator walks the discovered files one at a time: files without any mapped
// literal are left untouched, the constants import is added or overwritten on a
// best-effort textual basis, every mapped literal is substituted in table order,
// and the file is written back only when its text changed. Failures are reported
// per file and never abort the run.
package migrate
