// Package auth implements registration and login request handling.
//
// The service is transport-free: it receives the parsed form, the session it
// may write identity into and the flash sink, and returns where the browser
// should be redirected. Only dependency failures (store, hasher) come back as
// errors; every declined attempt is a redirect plus a single flash message.
package auth
