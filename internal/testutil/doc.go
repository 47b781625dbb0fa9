// Package testutil holds helpers shared by package tests: a migrated
// PostgreSQL testcontainer, test-scoped contexts and polling waits.
package testutil
