package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTempFileStore(t *testing.T, format string) (*FileDocumentStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks."+format)
	s, err := NewFileDocumentStore(path, format)
	if err != nil {
		t.Fatalf("NewFileDocumentStore(%s): %v", format, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func doc(id, owner, body string) Document {
	return Document{ID: id, OwnerID: owner, Body: []byte(body)}
}

func TestFileStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s, _ := newTempFileStore(t, "json")

	if err := s.Create(ctx, doc("d1", "owner-1", `{"title":"a"}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, doc("d1", "owner-1", `{}`)); err == nil {
		t.Fatal("creating a duplicate ID must fail")
	}

	if err := s.Update(ctx, "d1", doc("d1", "owner-1", `{"title":"b"}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, "ghost", doc("ghost", "owner-1", `{}`)); err == nil {
		t.Fatal("updating a missing document must fail")
	}

	docs, err := s.QueryByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || string(docs[0].Body) != `{"title":"b"}` {
		t.Fatalf("unexpected query result: %+v", docs)
	}
	if docs[0].UpdatedAt.IsZero() {
		t.Error("updatedAt must be stamped on write")
	}

	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatal(err)
	}
	// Repeated delete is idempotent.
	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	docs, err = s.QueryByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty store, got %d documents", len(docs))
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			ctx := context.Background()
			s, path := newTempFileStore(t, format)

			body := `{"title":"survives","order":3}`
			if err := s.Create(ctx, doc("d1", "owner-1", body)); err != nil {
				t.Fatal(err)
			}
			if err := s.Close(); err != nil {
				t.Fatal(err)
			}

			reopened, err := NewFileDocumentStore(path, format)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer func() { _ = reopened.Close() }()

			docs, err := reopened.QueryByOwner(ctx, "owner-1")
			if err != nil {
				t.Fatal(err)
			}
			if len(docs) != 1 {
				t.Fatalf("got %d documents after reopen, want 1", len(docs))
			}
			if string(docs[0].Body) != body {
				t.Errorf("body = %s, want %s", docs[0].Body, body)
			}
		})
	}
}

func TestFileStoreRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.xml")
	if _, err := NewFileDocumentStore(path, "xml"); err == nil {
		t.Fatal("xml must be rejected")
	}
}

func TestFileStoreDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	s, path := newTempFileStore(t, "json")
	if err := s.Create(ctx, doc("d1", "owner-1", `{"title":"a"}`)); err != nil {
		t.Fatal(err)
	}

	// Tamper with the data file behind the store's back.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := []byte(strings.Replace(string(data), `"a"`, `"x"`, 1))
	if err := os.WriteFile(path, tampered, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = s.QueryByOwner(ctx, "owner-1")
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("err = %v, want checksum mismatch", err)
	}
}

func TestFileStoreReplaceByOwner(t *testing.T) {
	ctx := context.Background()
	s, _ := newTempFileStore(t, "json")

	if err := s.Create(ctx, doc("mine-1", "owner-1", `{}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, doc("mine-2", "owner-1", `{}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, doc("theirs", "owner-2", `{}`)); err != nil {
		t.Fatal(err)
	}

	replacement := []Document{doc("fresh", "owner-1", `{"title":"new"}`)}
	if err := s.ReplaceByOwner(ctx, "owner-1", replacement); err != nil {
		t.Fatal(err)
	}

	mine, err := s.QueryByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != "fresh" {
		t.Fatalf("owner-1 documents = %+v, want only the replacement", mine)
	}

	theirs, err := s.QueryByOwner(ctx, "owner-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(theirs) != 1 {
		t.Error("other owners must be untouched by a replace")
	}
}

func TestFileStoreHonorsContextCancellation(t *testing.T) {
	s, _ := newTempFileStore(t, "json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Create(ctx, doc("d1", "owner-1", `{}`)); err == nil {
		t.Fatal("create with a cancelled context must fail")
	}
	docs, err := s.QueryByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Error("cancelled write must not reach the file")
	}
}
