package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// getDocument reads one document into D. A missing document yields ErrNotFound.
func getDocument[D any](ctx context.Context, ref *firestore.DocumentRef, kind string) (*D, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("path", ref.Path))
		}
		return nil, goerr.Wrap(err, "failed to get "+kind, goerr.V("path", ref.Path))
	}

	var doc D
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal "+kind, goerr.V("path", ref.Path))
	}
	return &doc, nil
}

// listDocuments reads every document of query into D in query order
func listDocuments[D any](ctx context.Context, query firestore.Query, kind string) ([]*D, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []*D
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate "+kind)
		}

		var doc D
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal "+kind, goerr.V("doc_id", snap.Ref.ID))
		}
		docs = append(docs, &doc)
	}

	return docs, nil
}

// deleteDocument deletes ref, returning ErrNotFound when it does not exist
func deleteDocument(ctx context.Context, ref *firestore.DocumentRef, kind string) error {
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("path", ref.Path))
		}
		return goerr.Wrap(err, "failed to get "+kind, goerr.V("path", ref.Path))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete "+kind, goerr.V("path", ref.Path))
	}
	return nil
}

// updateDocument overwrites an existing document, returning ErrNotFound when it does not exist
func updateDocument(ctx context.Context, ref *firestore.DocumentRef, kind string, doc any) error {
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("path", ref.Path))
		}
		return goerr.Wrap(err, "failed to get "+kind, goerr.V("path", ref.Path))
	}

	if _, err := ref.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to update "+kind, goerr.V("path", ref.Path))
	}
	return nil
}
