package cmakeapi

import "fmt"

// MissingDocumentError reports a referenced File API document that does not
// exist on disk. The reply directory is a single static snapshot, so this is
// fatal: retrying without re-running CMake cannot change the outcome.
type MissingDocumentError struct {
	Kind string // "reply", "index", "codemodel", "target", "directory"
	Path string
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("missing %s document: %s", e.Kind, e.Path)
}
