package cmakeapi

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ritzau/cmake-graph/pkg/logging"
)

// ClientName identifies this tool to the CMake File API. Query and reply
// entries are namespaced under "client-<ClientName>".
const ClientName = "cmake-graph"

const apiPath = ".cmake/api/v1"

// SetupQuery creates the File API query file requesting the codemodel-v2
// object. CMake answers the query on its next configure run.
func SetupQuery(buildDir string) error {
	queryDir := filepath.Join(buildDir, apiPath, "query", "client-"+ClientName)
	if err := os.MkdirAll(queryDir, 0o755); err != nil {
		return fmt.Errorf("create query directory: %w", err)
	}

	queryFile := filepath.Join(queryDir, "codemodel-v2")
	f, err := os.Create(queryFile)
	if err != nil {
		return fmt.Errorf("create query file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close query file: %w", err)
	}

	logging.Info("wrote File API query", "path", queryFile)
	return nil
}

// ReplyDir returns the File API reply directory for a build tree.
// A missing directory means CMake has not been configured with the query in
// place yet.
func ReplyDir(buildDir string) (string, error) {
	replyDir := filepath.Join(buildDir, apiPath, "reply")
	info, err := os.Stat(replyDir)
	if err != nil || !info.IsDir() {
		return "", &MissingDocumentError{Kind: "reply", Path: replyDir}
	}
	return replyDir, nil
}

// FindIndex locates the current reply index file. The File API contract is
// that index files sort by name and the largest one is the current reply.
func FindIndex(replyDir string) (string, error) {
	entries, err := os.ReadDir(replyDir)
	if err != nil {
		return "", fmt.Errorf("read reply directory: %w", err)
	}

	var indexes []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasPrefix(name, "index-") && strings.HasSuffix(name, ".json") {
			indexes = append(indexes, name)
		}
	}
	if len(indexes) == 0 {
		return "", &MissingDocumentError{Kind: "index", Path: filepath.Join(replyDir, "index-*.json")}
	}

	sort.Strings(indexes)
	current := filepath.Join(replyDir, indexes[len(indexes)-1])
	logging.Debug("selected reply index", "path", current, "candidates", len(indexes))
	return current, nil
}
