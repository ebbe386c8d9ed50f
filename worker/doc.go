// Package worker derives the per-process worker id embedded in every
// identifier.
//
// The worker id is the FNV-1a 64-bit hash of "<fqdn>-<pid>", truncated to the
// 32-bit field the binary layout reserves for it. It is computed once per
// Provider and cached; the failure to resolve the host name is cached too,
// because a process that cannot establish its own identity must not fall
// back to a default and risk sharing an id with another process.
//
// Tests and embedders that already know their worker id pass WithFixed and
// never touch host resolution.
package worker
