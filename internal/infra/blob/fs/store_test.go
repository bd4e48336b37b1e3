package fs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"petcore/internal/blob/core"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestPutGetHeadRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	put, err := store.Put(ctx, "metadata/baby.json", strings.NewReader(`{"name":"Baby"}`), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"stage": "baby"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if put.ETag == "" {
		t.Fatal("expected content digest etag")
	}
	if put.URL != "http://local.blob/metadata/baby.json" {
		t.Fatalf("unexpected URL %q", put.URL)
	}

	head, err := store.Head(ctx, "metadata/baby.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.ETag != put.ETag || head.Size != put.Size || head.ContentType != "application/json" {
		t.Fatalf("head mismatch: put=%+v head=%+v", put, head)
	}

	info, rc, err := store.Get(ctx, "metadata/baby.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != `{"name":"Baby"}` {
		t.Fatalf("unexpected body %q", body)
	}
	if info.Metadata["stage"] != "baby" {
		t.Fatalf("unexpected metadata: %+v", info)
	}
}

func TestPutIsCreateOnly(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "k", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatal("expected error on overwrite")
	}
}

func TestKeySanitization(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "  ", "/abs", "../escape", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestListByPrefix(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"petworld/metadata/egg.json", "petworld/metadata/baby.json", "other/x"} {
		if _, err := store.Put(ctx, key, strings.NewReader(key), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "petworld/metadata/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(infos), infos)
	}
	if infos[0].Key != "petworld/metadata/baby.json" || infos[1].Key != "petworld/metadata/egg.json" {
		t.Fatalf("unexpected ordering: %+v", infos)
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "k", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	existed, err := store.Delete(ctx, "k")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(ctx, "k")
	if err != nil || existed {
		t.Fatalf("second delete: existed=%v err=%v", existed, err)
	}
}

func TestPresignURLOnlyGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	url, err := store.PresignURL(ctx, "k", core.SignedURLOptions{})
	if err != nil || url != "http://local.blob/k" {
		t.Fatalf("presign GET: url=%q err=%v", url, err)
	}
	if _, err := store.PresignURL(ctx, "k", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for PUT, got %v", err)
	}
}
