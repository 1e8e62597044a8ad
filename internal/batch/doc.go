// Package batch classifies proposed bulk operations before they run. It
// compares file counts and total sizes against per-operation thresholds,
// remembers recent user decisions so repeated prompts are suppressed, and
// estimates how long an operation will take.
package batch
