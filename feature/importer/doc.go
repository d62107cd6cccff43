// Package importer mirrors Bling entities into the local database.
//
// Every entity kind has a reconcile adapter that fetches the ERP detail and
// maps it, resolving foreign references through sibling resolvers, and a
// walker source that lists the kind page by page. The Importer owns both and
// hands the sources to the walkers started by the CLI, the HTTP surface and
// the scheduler.
package importer
