package lifecycle

import (
	"context"

	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/tags"
)

// MirrorItem is the data copied to the external dataset.
type MirrorItem struct {
	Identifier  ident.Identifier
	Image       []byte
	ContentType string
	Filename    string
	Artist      string
	Tags        []tags.Tag
}

// Mirror copies items to an external content dataset.
type Mirror interface {
	// Mirror uploads the image, creates missing tag documents and the
	// item document. It returns the id of the item document.
	Mirror(ctx context.Context, item MirrorItem) (string, error)
}
