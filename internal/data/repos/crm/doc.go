// Package crm persists clients, contacts and their links with gorm. A Store hands out
// sessions that each wrap one database transaction; everything loaded through a session's
// repositories is tracked so that Commit can write link changes made on either side.
package crm
