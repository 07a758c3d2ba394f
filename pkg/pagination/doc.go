// Package pagination holds the page arithmetic for the repository listing.
//
// The upstream endpoint returns fixed-size pages addressed by a 1-based page
// number and carries no total-count signal. Whether another page exists is
// therefore inferred from the size of the last page:
//
//	pagination.HasNextPage(len(repos)) // true only for a full page of PageSize
//
// A collection whose size is an exact multiple of PageSize yields one trailing
// empty page. This is a known limitation of the heuristic.
package pagination
