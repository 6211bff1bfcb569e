// Package gobasic is an interpreter for a line-numbered BASIC dialect.
//
// A Session owns one interpreter instance: the program store, the
// variable environment and the execution engine.  Feed it source lines
// through Execute; numbered lines edit the stored program and anything
// else runs immediately, so the same entry point serves both a REPL
// and batch loading.
//
// Execution never blocks on user input.  When a running program
// reaches INPUT or GET the session parks itself in the AwaitingInput
// state and returns; the caller gathers input however it likes and
// hands it back with ResumeInput or ResumeKey, at which point the run
// picks up where it left off.
package gobasic
