package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

type fakeTable struct {
	mu      sync.Mutex
	pages   [][][]byte
	listErr error
	filters []string
	added   []map[string]any
	updated []map[string]any
	modes   []aztables.UpdateMode
	deleted []string
	got     map[string][]byte
	failOn  map[string]error
}

func (f *fakeTable) NewListEntitiesPager(options *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse] {
	f.mu.Lock()
	if options != nil && options.Filter != nil {
		f.filters = append(f.filters, *options.Filter)
	}
	pages := f.pages
	listErr := f.listErr
	f.mu.Unlock()

	idx := 0
	return runtime.NewPager(runtime.PagingHandler[aztables.ListEntitiesResponse]{
		More: func(aztables.ListEntitiesResponse) bool {
			return idx < len(pages)
		},
		Fetcher: func(ctx context.Context, _ *aztables.ListEntitiesResponse) (aztables.ListEntitiesResponse, error) {
			if listErr != nil {
				return aztables.ListEntitiesResponse{}, listErr
			}
			if len(pages) == 0 {
				return aztables.ListEntitiesResponse{}, nil
			}
			page := pages[idx]
			idx++
			return aztables.ListEntitiesResponse{Entities: page}, nil
		},
	})
}

func (f *fakeTable) GetEntity(ctx context.Context, pk, rk string, _ *aztables.GetEntityOptions) (aztables.GetEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["get"]; err != nil {
		return aztables.GetEntityResponse{}, err
	}
	v, ok := f.got[rk]
	if !ok {
		return aztables.GetEntityResponse{}, &azcore.ResponseError{StatusCode: http.StatusNotFound}
	}
	return aztables.GetEntityResponse{Value: v}, nil
}

func (f *fakeTable) AddEntity(ctx context.Context, entity []byte, _ *aztables.AddEntityOptions) (aztables.AddEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["add"]; err != nil {
		return aztables.AddEntityResponse{}, err
	}
	var m map[string]any
	if err := json.Unmarshal(entity, &m); err != nil {
		return aztables.AddEntityResponse{}, err
	}
	f.added = append(f.added, m)
	return aztables.AddEntityResponse{}, nil
}

func (f *fakeTable) UpdateEntity(ctx context.Context, entity []byte, options *aztables.UpdateEntityOptions) (aztables.UpdateEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["update"]; err != nil {
		return aztables.UpdateEntityResponse{}, err
	}
	var m map[string]any
	if err := json.Unmarshal(entity, &m); err != nil {
		return aztables.UpdateEntityResponse{}, err
	}
	f.updated = append(f.updated, m)
	if options != nil {
		f.modes = append(f.modes, options.UpdateMode)
	}
	return aztables.UpdateEntityResponse{}, nil
}

func (f *fakeTable) DeleteEntity(ctx context.Context, pk, rk string, _ *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["delete"]; err != nil {
		return aztables.DeleteEntityResponse{}, err
	}
	f.deleted = append(f.deleted, pk+"/"+rk)
	return aztables.DeleteEntityResponse{}, nil
}

type fakeQueue struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeQueue) EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return azqueue.EnqueueMessagesResponse{}, f.err
	}
	f.messages = append(f.messages, content)
	return azqueue.EnqueueMessagesResponse{}, nil
}

type fakeTables struct {
	people, rooms, suggestions, tasks *fakeTable
}

func newTestStorage() (*Storage, fakeTables) {
	ft := fakeTables{people: &fakeTable{}, rooms: &fakeTable{}, suggestions: &fakeTable{}, tasks: &fakeTable{}}
	seq := 0
	s := &Storage{
		people:      ft.people,
		rooms:       ft.rooms,
		suggestions: ft.suggestions,
		tasks:       ft.tasks,
		partition:   "household",
		newID: func() string {
			seq++
			return "id-" + string(rune('0'+seq))
		},
	}
	return s, ft
}

func row(fields map[string]any) []byte {
	fields["odata.etag"] = "W/\"datetime'2024-01-01T00%3A00%3A00Z'\""
	fields["Timestamp"] = "2024-01-01T00:00:00Z"
	data, _ := json.Marshal(fields)
	return data
}
