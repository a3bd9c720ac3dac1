// Package httpapp provides the HTTP server for newsbrief.
//
// Routes:
//
//	POST /users/signup       create an account
//	POST /users/login        exchange credentials for a bearer token
//	GET  /users/preferences  read saved news preferences (Bearer)
//	PUT  /users/preferences  replace saved news preferences (Bearer)
//	GET  /news               preference-filtered feed, cached 10 minutes (Bearer)
//
// All request and response bodies are JSON. Error responses carry an
// {error, message} pair. Upstream news-API failures never surface as errors:
// /news degrades to a 200 with an empty list.
package httpapp
