package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
	"github.com/znsio/specmatic-product-catalog-go/internal/services"
)

func TestProductList_LoadingBeforeFetch(t *testing.T) {
	log, _ := newTestLogger()
	list := NewProductList(&fakeClient{}, log)

	snap := list.Snapshot()
	if snap.State != ListLoading {
		t.Fatalf("expected loading state, got %s", snap.State)
	}
	if snap.Message != LoadingMessage {
		t.Errorf("expected loading message, got %q", snap.Message)
	}
}

func TestProductList_Populated(t *testing.T) {
	log, _ := newTestLogger()
	client := &fakeClient{fetches: []fetchResult{{products: []models.Product{
		{ID: 3, Name: "Product 3", CreatedAt: "2025-11-17T12:00:00"},
		{ID: 1, Name: "Product 1", CreatedAt: "2025-11-17T10:00:00"},
		{ID: 2, Name: "Product 2", CreatedAt: "2025-11-17T11:00:00"},
	}}}}
	list := NewProductList(client, log)

	list.Load(context.Background())

	snap := list.Snapshot()
	if snap.State != ListPopulated {
		t.Fatalf("expected populated state, got %s", snap.State)
	}
	want := []string{"ID: 3 - Product 3", "ID: 1 - Product 1", "ID: 2 - Product 2"}
	if len(snap.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(snap.Lines))
	}
	for i := range want {
		if snap.Lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], snap.Lines[i])
		}
	}
	if snap.Message != "" {
		t.Errorf("expected no message, got %q", snap.Message)
	}
	if client.FetchCalls() != 1 {
		t.Errorf("expected 1 fetch, got %d", client.FetchCalls())
	}
}

func TestProductList_Empty(t *testing.T) {
	log, _ := newTestLogger()
	list := NewProductList(&fakeClient{fetches: []fetchResult{{products: []models.Product{}}}}, log)

	list.Load(context.Background())

	snap := list.Snapshot()
	if snap.State != ListEmpty {
		t.Fatalf("expected empty state, got %s", snap.State)
	}
	if snap.Message != EmptyMessage {
		t.Errorf("expected %q, got %q", EmptyMessage, snap.Message)
	}
}

func TestProductList_ErrorIsLoggedNotShown(t *testing.T) {
	log, hook := newTestLogger()
	apiErr := &services.APIError{Method: "GET", Path: "/api/products", StatusCode: 500, Body: []byte(`{"error":"Internal Server Error"}`), Message: "Internal Server Error"}
	list := NewProductList(&fakeClient{fetches: []fetchResult{{err: apiErr}}}, log)

	list.Load(context.Background())

	snap := list.Snapshot()
	if snap.State != ListError {
		t.Fatalf("expected error state, got %s", snap.State)
	}
	if snap.Message != LoadErrorMessage {
		t.Errorf("expected fixed error message, got %q", snap.Message)
	}
	if strings.Contains(snap.Message, "Internal Server Error") {
		t.Error("underlying error must not be shown")
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected error to be logged, got %v", entry)
	}
	if entry.Data["status"] != 500 {
		t.Errorf("expected status field 500, got %v", entry.Data["status"])
	}
	if entry.Data["body"] != `{"error":"Internal Server Error"}` {
		t.Errorf("expected body field, got %v", entry.Data["body"])
	}
}

func TestProductList_ErrorDropsStaleProducts(t *testing.T) {
	log, _ := newTestLogger()
	client := &fakeClient{fetches: []fetchResult{
		{products: []models.Product{{ID: 1, Name: "Product 1"}}},
		{err: errors.New("Network Error")},
	}}
	list := NewProductList(client, log)

	list.Load(context.Background())
	list.Refresh(context.Background())

	snap := list.Snapshot()
	if snap.State != ListError {
		t.Fatalf("expected error state, got %s", snap.State)
	}
	if len(snap.Products) != 0 || len(snap.Lines) != 0 {
		t.Errorf("expected stale products to be discarded, got %v", snap.Products)
	}
}

func TestProductList_RefreshFetchesOnceMore(t *testing.T) {
	log, _ := newTestLogger()
	client := &fakeClient{}
	list := NewProductList(client, log)

	list.Load(context.Background())
	if client.FetchCalls() != 1 {
		t.Fatalf("expected 1 fetch after mount, got %d", client.FetchCalls())
	}

	list.Refresh(context.Background())
	if client.FetchCalls() != 2 {
		t.Errorf("expected 2 fetches after refresh, got %d", client.FetchCalls())
	}
}

func TestProductList_ShowsLoadingWhileFetching(t *testing.T) {
	log, _ := newTestLogger()
	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := fetcherFunc(func(ctx context.Context) ([]models.Product, error) {
		close(started)
		<-release
		return []models.Product{{ID: 1, Name: "Product 1"}}, nil
	})
	list := NewProductList(fetcher, log)

	done := make(chan struct{})
	go func() {
		list.Load(context.Background())
		close(done)
	}()

	<-started
	if list.State() != ListLoading {
		t.Errorf("expected loading while fetch is pending, got %s", list.State())
	}

	close(release)
	<-done
	if list.State() != ListPopulated {
		t.Errorf("expected populated after fetch, got %s", list.State())
	}
}

func TestProductList_CloseDiscardsPendingResult(t *testing.T) {
	log, _ := newTestLogger()
	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := fetcherFunc(func(ctx context.Context) ([]models.Product, error) {
		close(started)
		<-release
		return []models.Product{{ID: 1, Name: "Product 1"}}, nil
	})
	list := NewProductList(fetcher, log)

	done := make(chan struct{})
	go func() {
		list.Load(context.Background())
		close(done)
	}()

	<-started
	list.Close()
	close(release)
	<-done

	if list.State() != ListLoading {
		t.Errorf("expected result after Close to be discarded, got %s", list.State())
	}
}

func TestProductList_SnapshotIsCopy(t *testing.T) {
	log, _ := newTestLogger()
	list := NewProductList(&fakeClient{fetches: []fetchResult{{products: []models.Product{{ID: 1, Name: "Product 1"}}}}}, log)
	list.Load(context.Background())

	snap := list.Snapshot()
	snap.Products[0].Name = "mutated"

	if list.Snapshot().Products[0].Name != "Product 1" {
		t.Error("snapshot must not alias list state")
	}
}

type fetcherFunc func(ctx context.Context) ([]models.Product, error)

func (f fetcherFunc) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return f(ctx)
}
