package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

type mockSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestPublisher_Publish(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/pedidos")

	ev := pedidos.Event{
		Type:       pedidos.EventCreated,
		PedidoID:   "0b6d3c1e-4a55-4e0e-9d2f-3cba4c1f7a10",
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, mock.inputs, 1)

	in := mock.inputs[0]
	assert.Equal(t, "https://sqs.local/pedidos", *in.QueueUrl)
	assert.Equal(t, "pedido.created", *in.MessageAttributes["event_type"].StringValue)
	assert.Equal(t, ev.PedidoID, *in.MessageAttributes["pedido_id"].StringValue)

	var got pedidos.Event
	require.NoError(t, json.Unmarshal([]byte(*in.MessageBody), &got))
	assert.Equal(t, ev.Type, got.Type)
	assert.Equal(t, ev.PedidoID, got.PedidoID)
	assert.True(t, ev.OccurredAt.Equal(got.OccurredAt))
}

func TestPublisher_SendError(t *testing.T) {
	p := NewPublisher(&mockSQS{err: errors.New("throttled")}, "q")
	err := p.Publish(context.Background(), pedidos.Event{Type: pedidos.EventDeleted, PedidoID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
