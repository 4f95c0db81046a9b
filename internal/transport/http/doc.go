// Package http contains the HTTP handlers of the API. Handlers stay
// thin: parse the request, call a service, render the response; every
// failure goes through the shared error handler so responses follow one
// envelope.
package http
