package domain

// ArtifactRef describes where a finalized generation result lives and how to
// fetch it. Immutable once produced by the finalizer.
type ArtifactRef struct {
	// URL is the externally fetchable location of the artifact. Either a
	// time-limited signed URL or, when signing failed, the raw storage
	// locator.
	URL string `json:"url"`

	// MIMEType describes the artifact encoding, e.g. "video/mp4".
	MIMEType string `json:"mime_type"`

	// Name is the object name of the stored artifact.
	Name string `json:"name"`

	// Description is a human-readable summary including the originating
	// prompt and the durable storage location.
	Description string `json:"description"`

	// Signed reports whether URL is a time-limited signed URL. False means
	// the URL is the raw storage locator because signing was unavailable,
	// which is a degraded but valid success.
	Signed bool `json:"signed"`
}
