package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// nextID allocates the next sequential ID of kind. IDs are unique across projects.
func nextID(ctx context.Context, client *firestore.Client, paths *collectionPaths, kind string) (int64, error) {
	counterRef := paths.root("counters").Doc(kind + "_counter")

	var next int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				next = 1
				return tx.Set(counterRef, map[string]any{
					"value": next,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		next = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: next},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("kind", kind))
	}

	return next, nil
}
