package storage

import (
	"context"

	"github.com/bytedance/sonic"

	"github.com/antoine01000/bureau-main/domain"
)

// EnqueueActivity sends the activity to the activity queue. It does nothing
// when no queue is configured.
func (s *Storage) EnqueueActivity(ctx context.Context, a domain.Activity) error {
	if s.activity == nil {
		return nil
	}
	data, err := sonic.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.activity.EnqueueMessage(ctx, string(data), nil)
	return err
}
