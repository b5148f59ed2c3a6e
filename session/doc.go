// Package session provides the Redis-backed session adjunct: an
// authenticated principal is reduced to its account ID at login and
// rehydrated by ID on each subsequent request.
package session
