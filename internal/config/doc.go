// Package config loads the application configuration from environment
// variables (STEMPULSE_ prefix) with an optional YAML file underneath, and
// validates it before anything else starts. Paths to the three input
// tables and the reports directory, the significance level, and the
// summary wording all live here so none of it is hardcoded in the
// pipeline.
package config
