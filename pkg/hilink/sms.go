package hilink

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

const (
	smsCountEndpoint   = "/api/sms/sms-count"
	smsListEndpoint    = "/api/sms/sms-list"
	smsDeleteEndpoint  = "/api/sms/delete-sms"
	smsSetReadEndpoint = "/api/sms/set-read"
)

// smsService implements the SMSService interface
type smsService struct {
	client *Client
}

// Count retrieves message counters per box
func (s *smsService) Count(ctx context.Context) (*SMSCount, error) {
	count, err := fetch[SMSCount](ctx, s.client, smsCountEndpoint, nil, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sms count")
	}
	return count, nil
}

// List retrieves one page of messages. Nil params use DefaultSMSListParams.
func (s *smsService) List(ctx context.Context, params *SMSListParams) (*SMSList, error) {
	list, err := fetch[SMSList](ctx, s.client, smsListEndpoint, params.request(), true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sms")
	}
	return list, nil
}

// Delete removes a message by index
func (s *smsService) Delete(ctx context.Context, index string) error {
	if strings.TrimSpace(index) == "" {
		return errors.New("message index is required")
	}
	if err := s.client.mutate(ctx, smsDeleteEndpoint, smsIndexRequest{Index: index}); err != nil {
		return errors.Wrapf(err, "failed to delete sms %s", index)
	}
	return nil
}

// MarkRead marks a message as read
func (s *smsService) MarkRead(ctx context.Context, index string) error {
	if strings.TrimSpace(index) == "" {
		return errors.New("message index is required")
	}
	if err := s.client.mutate(ctx, smsSetReadEndpoint, smsIndexRequest{Index: index}); err != nil {
		return errors.Wrapf(err, "failed to mark sms %s read", index)
	}
	return nil
}
