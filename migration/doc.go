/*
Package migration provides schema versioning of stored models.

Every model carries a metadata schema version. Each package that opts in
declares the schema version its data currently uses, and registers a
migration function for every version. Models loaded through a migration
aware bucket are upgraded in place to the current schema version of their
package before they are returned.

A package with no declared schema is considered to be at version one.
*/
package migration
