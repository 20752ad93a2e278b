// package models defines the catalog data model shared by every component.
//
// Relationship fields returned by the backend arrive in two shapes: a bare
// identifier string or a fully populated object, depending on which endpoint
// produced the document. The reference types ([SongRef], [UserRef], [AlbumRef])
// model that union explicitly so consumers branch on the resolved tag instead
// of probing field presence at every call site.
package models
