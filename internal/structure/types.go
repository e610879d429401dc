package structure

// FileNode is one file in the project tree.
type FileNode struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size"`
	Extension string `json:"extension"`
	Language  string `json:"language,omitempty"`
}

// DirectoryNode is one directory in the project tree, holding its files and
// subdirectories keyed by name.
type DirectoryNode struct {
	Name        string                    `json:"name"`
	Path        string                    `json:"path"`
	Files       []FileNode                `json:"files"`
	Directories map[string]*DirectoryNode `json:"directories"`
}

func newDirectoryNode(name, path string) *DirectoryNode {
	return &DirectoryNode{
		Name:        name,
		Path:        path,
		Files:       []FileNode{},
		Directories: make(map[string]*DirectoryNode),
	}
}

// LargestFile is one entry in the largest-files ranking. Path is relative to
// the project root.
type LargestFile struct {
	Path      string  `json:"path"`
	SizeBytes int64   `json:"size"`
	SizeMB    float64 `json:"sizeMb"`
}

// Statistics aggregates counts over every non-ignored file within the depth
// ceiling.
type Statistics struct {
	TotalFiles     int            `json:"totalFiles"`
	TotalSizeBytes int64          `json:"totalSizeBytes"`
	FileTypes      map[string]int `json:"fileTypes"`
	LanguageStats  map[string]int `json:"languageStats"`
	LargestFiles   []LargestFile  `json:"largestFiles"`
}

// SkippedPath records a directory the scan could not enter.
type SkippedPath struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report is the result of a structure scan.
type Report struct {
	Root         *DirectoryNode `json:"root"`
	Statistics   Statistics     `json:"statistics"`
	SkippedPaths []SkippedPath  `json:"skippedPaths"`
}
