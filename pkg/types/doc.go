// Package types defines the framework catalog entities, the company context,
// the taxonomy enumerations shared by both, the scoring and journey result
// types, and the error kinds of the Compass recommendation engine.
package types
