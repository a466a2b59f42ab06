package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/google/uuid"

	"github.com/antoine01000/bureau-main/domain"
)

// Config names the tables, queue and partition used by Storage.
type Config struct {
	ConnectionString string
	PeopleTable      string
	RoomsTable       string
	SuggestionsTable string
	TasksTable       string
	// ActivityQueue is optional. Activities are dropped when it is empty.
	ActivityQueue string
	Partition     string
}

type tableClient interface {
	NewListEntitiesPager(options *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse]
	GetEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	AddEntity(ctx context.Context, entity []byte, options *aztables.AddEntityOptions) (aztables.AddEntityResponse, error)
	UpdateEntity(ctx context.Context, entity []byte, options *aztables.UpdateEntityOptions) (aztables.UpdateEntityResponse, error)
	DeleteEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error)
}

type queueClient interface {
	EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error)
}

// Storage provides access to the household tables.
type Storage struct {
	people      tableClient
	rooms       tableClient
	suggestions tableClient
	tasks       tableClient
	activity    queueClient
	partition   string
	newID       func() string
}

var retryStatusCodes = []int{408, 429, 500, 502, 503, 504}

// New creates a Storage instance from the given configuration.
func New(cfg Config) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   retryStatusCodes,
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(cfg.ConnectionString, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	s := &Storage{
		people:      svc.NewClient(cfg.PeopleTable),
		rooms:       svc.NewClient(cfg.RoomsTable),
		suggestions: svc.NewClient(cfg.SuggestionsTable),
		tasks:       svc.NewClient(cfg.TasksTable),
		partition:   cfg.Partition,
		newID:       newRowKey,
	}
	if cfg.ActivityQueue != "" {
		queueClientOptions := azqueue.ClientOptions{
			ClientOptions: azcore.ClientOptions{
				Retry: policy.RetryOptions{
					MaxRetries:    5,
					TryTimeout:    time.Minute,
					RetryDelay:    time.Second,
					MaxRetryDelay: time.Second * 60,
					StatusCodes:   retryStatusCodes,
				},
			},
		}
		q, err := azqueue.NewQueueClientFromConnectionString(cfg.ConnectionString, cfg.ActivityQueue, &queueClientOptions)
		if err != nil {
			return nil, err
		}
		s.activity = q
	}
	return s, nil
}

// newRowKey returns a UUIDv7 string. Row keys sort by creation time, so the
// natural table order is id ascending.
func newRowKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type entity struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
}

type personEntity struct {
	entity
	Name string `json:"Name"`
}

type roomEntity struct {
	entity
	Name string `json:"Name"`
}

type suggestionEntity struct {
	entity
	Room string `json:"Room,omitempty"`
	Name string `json:"Name,omitempty"`
}

type taskEntity struct {
	entity
	Name     string `json:"Name"`
	Assignee string `json:"Assignee"`
	RoomID   string `json:"RoomID"`
	Status   string `json:"Status"`
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func (s *Storage) partitionFilter() string {
	return "PartitionKey eq " + quote(s.partition)
}

func (s *Storage) suggestionsFilter(roomKey string) string {
	return s.partitionFilter() + " and Room eq " + quote(roomKey)
}

func listEntities(ctx context.Context, c tableClient, filter string, fn func([]byte) error) error {
	pager := c.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, e := range resp.Entities {
			if err := fn(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func (s *Storage) add(ctx context.Context, c tableClient, ent any) error {
	payload, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	_, err = c.AddEntity(ctx, payload, nil)
	return err
}

func (s *Storage) merge(ctx context.Context, c tableClient, ent any) error {
	payload, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	et := azcore.ETagAny
	_, err = c.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &et, UpdateMode: aztables.UpdateModeMerge})
	return err
}

// remove deletes a row. A missing row counts as deleted.
func (s *Storage) remove(ctx context.Context, c tableClient, id string) error {
	et := azcore.ETagAny
	_, err := c.DeleteEntity(ctx, s.partition, id, &aztables.DeleteEntityOptions{IfMatch: &et})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func decodePerson(data []byte) (domain.Person, error) {
	var ent personEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return domain.Person{}, err
	}
	return domain.Person{ID: ent.RowKey, Name: ent.Name}, nil
}

func decodeRoom(data []byte) (domain.Room, error) {
	var ent roomEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return domain.Room{}, err
	}
	return domain.Room{ID: ent.RowKey, Name: ent.Name}, nil
}

func decodeSuggestion(data []byte) (domain.TaskSuggestion, error) {
	var ent suggestionEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return domain.TaskSuggestion{}, err
	}
	return domain.TaskSuggestion{ID: ent.RowKey, Room: ent.Room, Name: ent.Name}, nil
}

func decodeTask(data []byte) (domain.Task, error) {
	var ent taskEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		ID:       ent.RowKey,
		Name:     ent.Name,
		Assignee: ent.Assignee,
		RoomID:   ent.RoomID,
		Status:   ent.Status,
	}, nil
}

// FetchPeople retrieves every person of the household.
func (s *Storage) FetchPeople(ctx context.Context) ([]domain.Person, error) {
	people := []domain.Person{}
	err := listEntities(ctx, s.people, s.partitionFilter(), func(data []byte) error {
		p, err := decodePerson(data)
		if err != nil {
			return err
		}
		people = append(people, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}
	return people, nil
}

// InsertPerson adds a person row.
func (s *Storage) InsertPerson(ctx context.Context, name string) (domain.Person, error) {
	ent := personEntity{entity: entity{PartitionKey: s.partition, RowKey: s.newID()}, Name: name}
	if err := s.add(ctx, s.people, ent); err != nil {
		return domain.Person{}, fmt.Errorf("insert person: %w", err)
	}
	return domain.Person{ID: ent.RowKey, Name: ent.Name}, nil
}

// DeletePerson removes the person row with the given id.
func (s *Storage) DeletePerson(ctx context.Context, id string) error {
	if err := s.remove(ctx, s.people, id); err != nil {
		return fmt.Errorf("delete person %s: %w", id, err)
	}
	return nil
}

// FetchRooms retrieves every room of the household.
func (s *Storage) FetchRooms(ctx context.Context) ([]domain.Room, error) {
	rooms := []domain.Room{}
	err := listEntities(ctx, s.rooms, s.partitionFilter(), func(data []byte) error {
		r, err := decodeRoom(data)
		if err != nil {
			return err
		}
		rooms = append(rooms, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch rooms: %w", err)
	}
	return rooms, nil
}

// InsertRoom adds a room row.
func (s *Storage) InsertRoom(ctx context.Context, name string) (domain.Room, error) {
	ent := roomEntity{entity: entity{PartitionKey: s.partition, RowKey: s.newID()}, Name: name}
	if err := s.add(ctx, s.rooms, ent); err != nil {
		return domain.Room{}, fmt.Errorf("insert room: %w", err)
	}
	return domain.Room{ID: ent.RowKey, Name: ent.Name}, nil
}

// DeleteRoom removes the room row with the given id.
func (s *Storage) DeleteRoom(ctx context.Context, id string) error {
	if err := s.remove(ctx, s.rooms, id); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

// UpdateRoomName merges a new name into the room row.
func (s *Storage) UpdateRoomName(ctx context.Context, id, name string) error {
	ent := roomEntity{entity: entity{PartitionKey: s.partition, RowKey: id}, Name: name}
	if err := s.merge(ctx, s.rooms, ent); err != nil {
		return fmt.Errorf("update room %s: %w", id, err)
	}
	return nil
}

// FetchSuggestions retrieves the suggestions filed under roomKey ordered by
// id ascending.
func (s *Storage) FetchSuggestions(ctx context.Context, roomKey string) ([]domain.TaskSuggestion, error) {
	suggestions := []domain.TaskSuggestion{}
	err := listEntities(ctx, s.suggestions, s.suggestionsFilter(roomKey), func(data []byte) error {
		sg, err := decodeSuggestion(data)
		if err != nil {
			return err
		}
		suggestions = append(suggestions, sg)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch suggestions %s: %w", roomKey, err)
	}
	sort.SliceStable(suggestions, func(i, j int) bool { return suggestions[i].ID < suggestions[j].ID })
	return suggestions, nil
}

// InsertSuggestion adds a suggestion row under roomKey.
func (s *Storage) InsertSuggestion(ctx context.Context, roomKey, name string) (domain.TaskSuggestion, error) {
	ent := suggestionEntity{entity: entity{PartitionKey: s.partition, RowKey: s.newID()}, Room: roomKey, Name: name}
	if err := s.add(ctx, s.suggestions, ent); err != nil {
		return domain.TaskSuggestion{}, fmt.Errorf("insert suggestion: %w", err)
	}
	return domain.TaskSuggestion{ID: ent.RowKey, Room: ent.Room, Name: ent.Name}, nil
}

// UpdateSuggestion merges a new name into the suggestion row and returns the
// stored row.
func (s *Storage) UpdateSuggestion(ctx context.Context, id, name string) (domain.TaskSuggestion, error) {
	ent := suggestionEntity{entity: entity{PartitionKey: s.partition, RowKey: id}, Name: name}
	if err := s.merge(ctx, s.suggestions, ent); err != nil {
		return domain.TaskSuggestion{}, fmt.Errorf("update suggestion %s: %w", id, err)
	}
	resp, err := s.suggestions.GetEntity(ctx, s.partition, id, nil)
	if err != nil {
		return domain.TaskSuggestion{}, fmt.Errorf("get suggestion %s: %w", id, err)
	}
	return decodeSuggestion(resp.Value)
}

// UpdateSuggestionRoom files the suggestion under another room key.
func (s *Storage) UpdateSuggestionRoom(ctx context.Context, id, roomKey string) error {
	ent := suggestionEntity{entity: entity{PartitionKey: s.partition, RowKey: id}, Room: roomKey}
	if err := s.merge(ctx, s.suggestions, ent); err != nil {
		return fmt.Errorf("move suggestion %s: %w", id, err)
	}
	return nil
}

// DeleteSuggestion removes the suggestion row with the given id.
func (s *Storage) DeleteSuggestion(ctx context.Context, id string) error {
	if err := s.remove(ctx, s.suggestions, id); err != nil {
		return fmt.Errorf("delete suggestion %s: %w", id, err)
	}
	return nil
}

// FetchTasks retrieves every task with the name of its room. Tasks whose room
// is gone keep an empty room name.
func (s *Storage) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := listEntities(ctx, s.tasks, s.partitionFilter(), func(data []byte) error {
		t, err := decodeTask(data)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	rooms, err := s.FetchRooms(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}
	for i := range tasks {
		tasks[i].RoomName = names[tasks[i].RoomID]
	}
	return tasks, nil
}

// InsertTask adds a task row.
func (s *Storage) InsertTask(ctx context.Context, t domain.NewTask) (domain.Task, error) {
	ent := taskEntity{
		entity:   entity{PartitionKey: s.partition, RowKey: s.newID()},
		Name:     t.Name,
		Assignee: t.Assignee,
		RoomID:   t.RoomID,
		Status:   t.Status,
	}
	if err := s.add(ctx, s.tasks, ent); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return domain.Task{ID: ent.RowKey, Name: ent.Name, Assignee: ent.Assignee, RoomID: ent.RoomID, Status: ent.Status}, nil
}

// DeleteTask removes the task row with the given id.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	if err := s.remove(ctx, s.tasks, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
