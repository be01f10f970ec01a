// Package store defines the persistence interfaces for each entity type,
// together with the shared error taxonomy and transaction helper. Two
// backends implement these interfaces: platform/memory (volatile, in-memory)
// and platform/postgres (durable). Application code depends only on the
// interfaces so the backends are interchangeable.
package store
