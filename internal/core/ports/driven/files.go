package driven

// FileFinder resolves user-supplied paths into the local files to upload.
type FileFinder interface {
	// Find expands directories recursively and returns matching files as
	// absolute paths. Explicitly named files are returned if they match.
	Find(paths []string) ([]string, error)

	// Matches reports whether a file name is selected by the include patterns.
	Matches(path string) bool
}
