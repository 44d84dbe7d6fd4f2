package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/audit"
)

func TestEmitter_Emit(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	emitter := audit.NewEmitter(producer, "audit-events", zap.NewNop())

	event := audit.Event{
		EntityType: audit.EntityCheckout,
		EntityID:   "83575e12-7ce0-48ee-9931-51919ff3c9ee",
		Action:     audit.ActionCheckoutCreated,
		Actor:      "alice",
		Timestamp:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Details: map[string]string{
			"code": "LF-9F2C4A7B",
		},
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		require.Equal(t, event.EntityID, string(key))

		val, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got audit.Event
		require.NoError(t, json.Unmarshal(val, &got))
		require.Equal(t, event, got)
		return nil
	})

	require.NoError(t, emitter.Emit(context.Background(), event))
	require.NoError(t, producer.Close())
}

func TestEmitter_EmitBrokerFailure(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	emitter := audit.NewEmitter(producer, "audit-events", zap.NewNop())

	sendErr := errors.New("broker unreachable")
	producer.ExpectSendMessageAndFail(sendErr)

	err := emitter.Emit(context.Background(), audit.Event{
		EntityType: audit.EntityBorrowing,
		EntityID:   "1fba85ad-4a66-4a77-9339-2b7e4b3f1a52",
		Action:     audit.ActionBorrowingOverdue,
		Actor:      audit.SystemActor,
	})
	require.ErrorIs(t, err, sendErr)
	require.NoError(t, producer.Close())
}
