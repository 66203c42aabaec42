package cmakeapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ritzau/cmake-graph/pkg/logging"
)

// Index is the decoded reply index document. Only the per-client reply table
// is needed to locate the codemodel.
type Index struct {
	Reply map[string]map[string]ReplyRef `json:"reply"`
}

// ReplyRef points at a generated reply document.
type ReplyRef struct {
	Kind     string `json:"kind"`
	JSONFile string `json:"jsonFile"`
	Error    string `json:"error"`
}

// Codemodel is the codemodel-v2 reply object.
type Codemodel struct {
	Kind           string          `json:"kind"`
	Paths          Paths           `json:"paths"`
	Configurations []Configuration `json:"configurations"`
}

// Paths holds the source and build tree locations of the codemodel.
type Paths struct {
	Source string `json:"source"`
	Build  string `json:"build"`
}

// Configuration is one build configuration (e.g. Debug) with its project,
// directory and target listings. Index lists cross-reference each other
// within the same configuration.
type Configuration struct {
	Name        string           `json:"name"`
	Projects    []ProjectEntry   `json:"projects"`
	Directories []DirectoryEntry `json:"directories"`
	Targets     []TargetEntry    `json:"targets"`
}

// ProjectEntry is the codemodel record for one project() invocation.
type ProjectEntry struct {
	Name             string `json:"name"`
	ParentIndex      *int   `json:"parentIndex,omitempty"`
	ChildIndexes     []int  `json:"childIndexes,omitempty"`
	DirectoryIndexes []int  `json:"directoryIndexes,omitempty"`
	TargetIndexes    []int  `json:"targetIndexes,omitempty"`
}

// DirectoryEntry is the codemodel record for one source directory.
type DirectoryEntry struct {
	Source        string `json:"source"`
	Build         string `json:"build"`
	ParentIndex   *int   `json:"parentIndex,omitempty"`
	ChildIndexes  []int  `json:"childIndexes,omitempty"`
	ProjectIndex  int    `json:"projectIndex"`
	TargetIndexes []int  `json:"targetIndexes,omitempty"`
	JSONFile      string `json:"jsonFile"`
}

// TargetEntry is the codemodel record for one target; the detail document it
// points at carries the dependency list and provenance.
type TargetEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DirectoryIndex int    `json:"directoryIndex"`
	ProjectIndex   int    `json:"projectIndex"`
	JSONFile       string `json:"jsonFile"`
}

// TargetDetail is the per-target reply document.
type TargetDetail struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Backtrace      int             `json:"backtrace"`
	BacktraceGraph BacktraceGraph  `json:"backtraceGraph"`
	Dependencies   []DependencyRef `json:"dependencies,omitempty"`
	Sources        []SourceRef     `json:"sources,omitempty"`
	CompileGroups  []CompileGroup  `json:"compileGroups,omitempty"`
	Install        *Install        `json:"install,omitempty"`
}

// BacktraceGraph records where CMake commands affecting a target ran.
type BacktraceGraph struct {
	Commands []string        `json:"commands"`
	Files    []string        `json:"files"`
	Nodes    []BacktraceNode `json:"nodes"`
}

// BacktraceNode is one frame in the backtrace graph. Command and Parent are
// optional indices; the root node carries only a file.
type BacktraceNode struct {
	File    int  `json:"file"`
	Line    int  `json:"line,omitempty"`
	Command *int `json:"command,omitempty"`
	Parent  *int `json:"parent,omitempty"`
}

// DependencyRef names another target by id.
type DependencyRef struct {
	ID        string `json:"id"`
	Backtrace int    `json:"backtrace,omitempty"`
}

// SourceRef is one source file of a target.
type SourceRef struct {
	Path              string `json:"path"`
	CompileGroupIndex *int   `json:"compileGroupIndex,omitempty"`
	SourceGroupIndex  *int   `json:"sourceGroupIndex,omitempty"`
}

// CompileGroup groups sources compiled with identical settings.
type CompileGroup struct {
	SourceIndexes []int        `json:"sourceIndexes"`
	Language      string       `json:"language"`
	Includes      []IncludeRef `json:"includes,omitempty"`
	Defines       []DefineRef  `json:"defines,omitempty"`
}

// IncludeRef is one include search path of a compile group.
type IncludeRef struct {
	Path string `json:"path"`
}

// DefineRef is one preprocessor definition of a compile group.
type DefineRef struct {
	Define string `json:"define"`
}

// Install describes a target's install rules.
type Install struct {
	Prefix       PathRef       `json:"prefix"`
	Destinations []Destination `json:"destinations"`
}

// PathRef wraps a single path value.
type PathRef struct {
	Path string `json:"path"`
}

// Destination is one install destination, relative to the prefix.
type Destination struct {
	Path      string `json:"path"`
	Backtrace int    `json:"backtrace,omitempty"`
}

// DirectoryDetail is the per-directory reply document. The model only needs
// it to exist; the decoded paths are kept for tooling.
type DirectoryDetail struct {
	Paths Paths `json:"paths"`
}

// LoadCodemodel locates the current reply index and decodes the codemodel it
// references for this client.
func LoadCodemodel(replyDir string) (*Codemodel, error) {
	indexPath, err := FindIndex(replyDir)
	if err != nil {
		return nil, err
	}

	var index Index
	if err := decodeDocument(indexPath, "index", &index); err != nil {
		return nil, err
	}

	client, ok := index.Reply["client-"+ClientName]
	if !ok {
		return nil, fmt.Errorf("reply index %s has no entry for client-%s; run setup and re-configure", indexPath, ClientName)
	}
	ref, ok := client["codemodel-v2"]
	if !ok || ref.JSONFile == "" {
		return nil, fmt.Errorf("reply index %s has no codemodel-v2 reply: %s", indexPath, ref.Error)
	}

	var codemodel Codemodel
	if err := decodeDocument(filepath.Join(replyDir, ref.JSONFile), "codemodel", &codemodel); err != nil {
		return nil, err
	}

	logging.Debug("loaded codemodel",
		"path", ref.JSONFile,
		"configurations", len(codemodel.Configurations))
	return &codemodel, nil
}

// LoadTargetDetail decodes the detail document referenced by a target entry.
func LoadTargetDetail(replyDir string, entry TargetEntry) (*TargetDetail, error) {
	var detail TargetDetail
	if err := decodeDocument(filepath.Join(replyDir, entry.JSONFile), "target", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// LoadDirectoryDetail decodes the detail document referenced by a directory
// entry.
func LoadDirectoryDetail(replyDir string, entry DirectoryEntry) (*DirectoryDetail, error) {
	var detail DirectoryDetail
	if err := decodeDocument(filepath.Join(replyDir, entry.JSONFile), "directory", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func decodeDocument(path, kind string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &MissingDocumentError{Kind: kind, Path: path}
		}
		return fmt.Errorf("read %s document: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s document %s: %w", kind, path, err)
	}
	return nil
}
