// Package services contains the application services sitting between the
// HTTP transport and the data pipeline. Services validate requests, pull
// the memoized pipeline result, and translate failures into the API
// error taxonomy; handlers stay thin.
package services
