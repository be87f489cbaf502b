// Package analytics derives a student's secondary metrics from their raw record:
// weighted GPA, performance trend, subject mastery, recommendations,
// attendance shortfall and assignment completion.
//
// Every function is pure: identical inputs always yield identical outputs
// and no call observes or mutates state left behind by another.
// Malformed inputs are rejected with a *core.ValidationError.
package analytics
