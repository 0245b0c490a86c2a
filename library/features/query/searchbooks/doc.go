// Package searchbooks implements the Search Books query use case.
//
// The complete catalog is loaded, filtered by the optional title, author and genre criteria,
// ordered by book id and only then sliced into the requested page. Because the whole filtered
// result set is materialized first, the page contents and the reported totals do not depend on
// the storage engine.
//
// A short-lived result cache can be enabled with WithResultCache. It keeps the filtered and ordered
// result per filter, so paging through the same search does not reload the catalog.
package searchbooks
