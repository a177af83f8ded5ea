package docsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrBadID     = errors.New("invalid document identifier")
	ErrMalformed = errors.New("document is not valid converted JSON")
)

// Source hands converted conversation documents to the pipeline. The
// converter runs upstream; whatever is here is final.
type Source interface {
	Fetch(ctx context.Context, userID string, documentID string) (commonModels.ConversationDocument, error)
}

// FileSource reads {root}/{userID}/{documentID}.json.
type FileSource struct {
	root   string
	logger *logger_i.Logger
}

func NewFileSource(root string) *FileSource {
	return &FileSource{
		root:   root,
		logger: logger_i.NewLogger("docsource"),
	}
}

func (s *FileSource) Fetch(ctx context.Context, userID string, documentID string) (commonModels.ConversationDocument, error) {
	var doc commonModels.ConversationDocument

	if !safeID(userID) || !safeID(documentID) {
		return doc, fmt.Errorf("%w: %q/%q", ErrBadID, userID, documentID)
	}

	path := filepath.Join(s.root, userID, documentID+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, fmt.Errorf("%w: %s/%s", ErrNotFound, userID, documentID)
		}
		return doc, err
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Error("Malformed document", "path", path, "error", err)
		return doc, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if doc.DocumentID == "" {
		doc.DocumentID = documentID
	}
	return doc, nil
}

// safeID keeps ids from escaping the document root.
func safeID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}
