package domain

import "fmt"

// RequestKind identifies which catalog listing a request asks for.
// Results are interpreted by the kind of request that produced them,
// never by inspecting the shape of the response.
type RequestKind int

const (
	RequestArtists      RequestKind = iota // All artists
	RequestArtistAlbums                    // ID = artist ID
	RequestAlbumSongs                      // ID = album ID
	RequestSearch                          // Query = search text
)

// String returns a human-readable name for the request kind
func (k RequestKind) String() string {
	switch k {
	case RequestArtists:
		return "artists"
	case RequestArtistAlbums:
		return "albums"
	case RequestAlbumSongs:
		return "songs"
	case RequestSearch:
		return "search"
	default:
		return fmt.Sprintf("RequestKind(%d)", int(k))
	}
}

// Request is a tagged catalog request
type Request struct {
	Kind  RequestKind
	ID    string
	Query string

	// Parent is the item being drilled into, carried so the result can
	// record the current artist/album context.
	Parent Ref
}

// ArtistsRequest returns a request for the full artist list
func ArtistsRequest() Request {
	return Request{Kind: RequestArtists}
}

// AlbumsRequest returns a request for an artist's albums
func AlbumsRequest(artist Artist) Request {
	return Request{Kind: RequestArtistAlbums, ID: artist.ID, Parent: artist.Ref()}
}

// SongsRequest returns a request for an album's songs
func SongsRequest(album Album) Request {
	return Request{Kind: RequestAlbumSongs, ID: album.ID, Parent: album.Ref()}
}

// SearchRequest returns a text search request
func SearchRequest(query string) Request {
	return Request{Kind: RequestSearch, Query: query}
}

// Result carries the records produced by a Request. Only the slice matching
// Request.Kind is populated.
type Result struct {
	Request Request
	Artists []Artist
	Albums  []Album
	Songs   []Song
}

// Len returns the number of records in the result
func (r Result) Len() int {
	switch r.Request.Kind {
	case RequestArtists:
		return len(r.Artists)
	case RequestArtistAlbums:
		return len(r.Albums)
	default:
		return len(r.Songs)
	}
}
