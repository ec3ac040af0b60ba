package source

// FileID indexes a file within its FileSet.
type FileID uint32

// FileFlags records how the content was obtained and normalized.
type FileFlags uint8

const (
	// FileVirtual marks content that did not come from disk: stdin, tests, editor buffers.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one source text plus its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n'.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line and 1-based byte column, as printed in messages.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Position is an editor position: zero-based line and zero-based UTF-16 column.
type Position struct {
	Line uint32
	Col  uint32
}
