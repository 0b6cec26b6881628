package mime

type MIME = string

const (
	// Plain is used for every textual body the router produces.
	Plain MIME = "text/plain"
	// OctetStream is used for file contents, which are served as opaque bytes.
	OctetStream MIME = "application/octet-stream"
)
