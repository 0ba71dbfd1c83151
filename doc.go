// Package povgen compiles proof-of-vulnerability specifications into
// C programs.
//
// A specification is a tree rooted at a cfepov element whose replay
// child lists the interaction: writes, reads, delays, variable
// declarations, a negotiation and a submission.  Package 'node' loads
// the tree from XML or YAML, package 'core' builds the actions and
// generates C, and the command-line tools are in `cmd`.
package povgen
