package subsonic

// ResponseHeader is the part every Subsonic response shares
type ResponseHeader struct {
	Status  string    `json:"status"` // "ok" or "failed"
	Version string    `json:"version"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the error element of a failed response
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// headerEnvelope decodes only the status of any response
type headerEnvelope struct {
	Response ResponseHeader `json:"subsonic-response"`
}

// Per-request envelopes. Each endpoint decodes into its own type.

type artistsEnvelope struct {
	Response struct {
		Artists ArtistsID3 `json:"artists"`
	} `json:"subsonic-response"`
}

type artistEnvelope struct {
	Response struct {
		Artist ArtistWithAlbums `json:"artist"`
	} `json:"subsonic-response"`
}

type albumEnvelope struct {
	Response struct {
		Album AlbumWithSongs `json:"album"`
	} `json:"subsonic-response"`
}

type search3Envelope struct {
	Response struct {
		SearchResult3 SearchResult3 `json:"searchResult3"`
	} `json:"subsonic-response"`
}

// ArtistsID3 is the getArtists payload, grouped by index letter
type ArtistsID3 struct {
	IgnoredArticles string      `json:"ignoredArticles"`
	Index           []IndexID3  `json:"index"`
	Artist          []ArtistID3 `json:"artist"` // some servers skip the index grouping
}

// IndexID3 is one letter group of artists
type IndexID3 struct {
	Name   string      `json:"name"`
	Artist []ArtistID3 `json:"artist"`
}

// ArtistID3 is an artist entry
type ArtistID3 struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AlbumCount int    `json:"albumCount"`
}

// ArtistWithAlbums is the getArtist payload
type ArtistWithAlbums struct {
	ArtistID3
	Album []AlbumID3 `json:"album"`
}

// AlbumID3 is an album entry
type AlbumID3 struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	ArtistID  string `json:"artistId"`
	SongCount int    `json:"songCount"`
	Duration  int    `json:"duration"`
	Year      int    `json:"year"`
}

// AlbumWithSongs is the getAlbum payload
type AlbumWithSongs struct {
	AlbumID3
	Song []Child `json:"song"`
}

// Child is a song entry
type Child struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Album    string `json:"album"`
	AlbumID  string `json:"albumId"`
	Artist   string `json:"artist"`
	ArtistID string `json:"artistId"`
	Track    int    `json:"track"`
	Disc     int    `json:"discNumber"`
	Duration int    `json:"duration"`
	IsDir    bool   `json:"isDir"`
}

// SearchResult3 is the search3 payload
type SearchResult3 struct {
	Artist []ArtistID3 `json:"artist"`
	Album  []AlbumID3  `json:"album"`
	Song   []Child     `json:"song"`
}
