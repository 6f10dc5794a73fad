// Package middleware provides the HTTP plumbing shared by every route:
// request logging, panic recovery, CORS, JSON helpers and the session gate.
package middleware
