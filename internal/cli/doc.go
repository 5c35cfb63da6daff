// Package cli parses command-line arguments into an app.Config and loads
// optional .env files before any back-end module reads its credentials.
package cli
