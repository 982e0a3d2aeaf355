package hilink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSMSService_Count(t *testing.T) {
	client, mockTransport := newMockClient()

	response := `<response>
	<LocalUnread>2</LocalUnread><LocalInbox>10</LocalInbox><LocalOutbox>3</LocalOutbox><LocalDraft>0</LocalDraft>
	<SimUnread>1</SimUnread><SimInbox>4</SimInbox><SimOutbox>0</SimOutbox><SimDraft>0</SimDraft>
	<NewMsg>1</NewMsg>
</response>`
	mockTransport.On("Call", mock.Anything, "/api/sms/sms-count", []byte(nil), true).Return(response, nil)

	count, err := client.SMS.Count(context.Background())

	require.NoError(t, err)
	unread, err := count.TotalUnread()
	require.NoError(t, err)
	assert.Equal(t, 3, unread)
	inbox, err := count.TotalInbox()
	require.NoError(t, err)
	assert.Equal(t, 14, inbox)
	assert.True(t, count.HasNewMessages())
}

func TestSMSCount_BadCounter(t *testing.T) {
	count := &SMSCount{LocalUnread: "two", SimUnread: "1"}
	_, err := count.TotalUnread()
	assert.Equal(t, KindAPIError, KindOf(err))
	assert.False(t, count.HasNewMessages())
}

func TestSMSService_List(t *testing.T) {
	client, mockTransport := newMockClient()

	response := `<?xml version="1.0" encoding="UTF-8"?>
<response>
	<Count>2</Count>
	<Messages>
		<Message>
			<Smstat>0</Smstat><Index>40001</Index><Phone>+491701234567</Phone>
			<Content>Hello</Content><Date>2026-10-14 09:12:44</Date><Sca></Sca>
			<SaveType>4</SaveType><Priority>0</Priority><SmsType>1</SmsType>
		</Message>
		<Message>
			<Smstat>1</Smstat><Index>40000</Index><Phone>Provider</Phone>
			<Content>Your balance is low</Content><Date>2026-10-13 18:00:02</Date><Sca></Sca>
			<SaveType>4</SaveType><Priority>0</Priority><SmsType>2</SmsType>
		</Message>
	</Messages>
</response>`

	mockTransport.On("Call", mock.Anything, "/api/sms/sms-list", bodyContains(
		"<PageIndex>1</PageIndex>",
		"<ReadCount>20</ReadCount>",
		"<BoxType>1</BoxType>",
		"<SortType>0</SortType>",
		"<Ascending>0</Ascending>",
		"<UnreadPreferred>1</UnreadPreferred>",
	), true).Return(response, nil)

	list, err := client.SMS.List(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, list.Total())
	require.Len(t, list.Messages, 2)
	assert.Equal(t, "40001", list.Messages[0].Index)
	assert.True(t, list.Messages[0].IsUnread())
	assert.Equal(t, "Your balance is low", list.Messages[1].Content)
	assert.False(t, list.Messages[1].IsUnread())

	mockTransport.AssertExpectations(t)
}

func TestSMSService_ListParams(t *testing.T) {
	client, mockTransport := newMockClient()

	mockTransport.On("Call", mock.Anything, "/api/sms/sms-list", bodyContains(
		"<PageIndex>3</PageIndex>",
		"<ReadCount>5</ReadCount>",
		"<BoxType>2</BoxType>",
		"<Ascending>1</Ascending>",
		"<UnreadPreferred>0</UnreadPreferred>",
	), true).Return("<response><Count>0</Count><Messages></Messages></response>", nil)

	list, err := client.SMS.List(context.Background(), &SMSListParams{Page: 3, Count: 5, Box: SMSBoxLocalOutbox, Ascending: true})

	require.NoError(t, err)
	assert.Empty(t, list.Messages)
	assert.Equal(t, 0, list.Total())
	mockTransport.AssertExpectations(t)
}

func TestSMSListParams_ZeroValuesDefault(t *testing.T) {
	req := (&SMSListParams{}).request()
	assert.Equal(t, 1, req.PageIndex)
	assert.Equal(t, 20, req.ReadCount)
	assert.Equal(t, int(SMSBoxLocalInbox), req.BoxType)
	assert.Equal(t, 0, req.UnreadPreferred)
}

func TestSMSList_TotalFallsBackToPageLength(t *testing.T) {
	list := &SMSList{Messages: []*SMSMessage{{Index: "1"}}}
	assert.Equal(t, 1, list.Total())
}

func TestSMSService_DeleteAndMarkRead(t *testing.T) {
	client, mockTransport := newMockClient()

	mockTransport.On("Call", mock.Anything, "/api/sms/delete-sms", bodyContains("<Index>40001</Index>"), true).
		Return("<response>OK</response>", nil).Once()
	mockTransport.On("Call", mock.Anything, "/api/sms/set-read", bodyContains("<Index>40000</Index>"), true).
		Return("<response>OK</response>", nil).Once()

	require.NoError(t, client.SMS.Delete(context.Background(), "40001"))
	require.NoError(t, client.SMS.MarkRead(context.Background(), "40000"))

	mockTransport.AssertExpectations(t)
}

func TestSMSService_RequiresIndex(t *testing.T) {
	client, mockTransport := newMockClient()

	assert.Error(t, client.SMS.Delete(context.Background(), ""))
	assert.Error(t, client.SMS.MarkRead(context.Background(), " "))
	mockTransport.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSMSService_DeleteDeviceError(t *testing.T) {
	client, mockTransport := newMockClient()
	mockTransport.On("Call", mock.Anything, "/api/sms/delete-sms", mock.Anything, true).
		Return("<response><ErrorCode>100005</ErrorCode><ErrorMessage>bad index</ErrorMessage></response>", nil)

	err := client.SMS.Delete(context.Background(), "1")

	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 100005, apiErr.Code)
	assert.Equal(t, "bad index", apiErr.Message)
}
