package repository

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-kivik/kivik/v4"
)

// findPageSize is the Mango page size. Queries follow the bookmark until a
// short page comes back.
var findPageSize = 200

// EnsureDatabase creates dbName if it does not exist yet and installs the
// Mango indexes used by the repositories.
func EnsureDatabase(ctx context.Context, client *kivik.Client, dbName string) error {
	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		log.Printf("Created database: %s", dbName)
	}

	db := client.DB(dbName)

	indexes := []struct {
		name   string
		fields []string
	}{
		{name: "users-by-email", fields: []string{"doc_type", "email"}},
		{name: "notes-by-owner", fields: []string{"doc_type", "owner_id"}},
	}

	for _, idx := range indexes {
		index := map[string]interface{}{"fields": idx.fields}
		if err := db.CreateIndex(ctx, "notehub", idx.name, index); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

func isNotFound(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusNotFound
}

func isConflict(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusConflict
}

func wrapNotFound(err, notFound error, op string) error {
	if isNotFound(err) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
